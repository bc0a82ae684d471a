// Package hash provides the two hashing primitives the service needs: bcrypt
// for verifying provisioned passwords and keyed HMAC-SHA256 for storing
// device tokens at rest. Both sit behind the same small interface.
package hash
