// Package jwt issues and verifies the short-lived access tokens handed out
// after a successful challenge verification.
package jwt
