package strcase

import (
	"unicode"
)

// ToLowerCamel lowers the leading word of an exported Go identifier so it
// matches JSON field naming (initialism-safe): DeliveryToken -> deliveryToken,
// ID -> id, HTTPServer -> httpServer.
func ToLowerCamel(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	switch {
	case upper == 0:
		return s
	case upper == len(runes):
		// whole identifier is an initialism
	case upper > 1 && unicode.IsLower(runes[upper]):
		// keep the first letter of the next word upper: HTTPServer -> httpServer
		upper--
	}

	for i := range upper {
		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}
