// Package validator checks request structs with go-playground/validator and
// renders field errors in English, keyed by the JSON field name.
package validator
