// Package mail defines the contract for sending email messages.
//
// Use cases work against the Mail interface and Message payload; the concrete
// delivery mechanism lives in this package so the rest of the application does
// not depend on a specific provider.
package mail
