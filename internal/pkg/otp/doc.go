// Package otp validates and generates time-based one-time passwords.
//
// Secrets are provisioned elsewhere; this package only concerns itself with
// computing and checking codes for a given secret and point in time.
package otp
