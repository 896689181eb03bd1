// Package service defines the ports the usecases depend on for work outside the domain model:
// hashing, tokens, event publishing, cover storage, QR codes and address lookup.
package service

// PasswordHasher hashes member passwords at registration and checks them at login.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash; malformed hashes never match.
	Check(password, hash string) bool
}
