// Package mail sends the OTP emails.
//
// Drivers: smtp (net/smtp with STARTTLS), gomail (implicit TLS on 465) and
// log, which only writes the message to the structured log for local runs.
package mail
