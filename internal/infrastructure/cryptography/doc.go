// Package cryptography implements the credential primitives used by the
// billing services: AES-GCM encryption of stored secrets, bcrypt password
// hashing, TOTP two-factor codes and signed session tokens.
package cryptography
