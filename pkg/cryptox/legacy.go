package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// The first generation of the Daykeep backend stored passwords as a bare
// hex SHA-256 of password+salt with a single application-wide salt. Those
// hashes still exist in production rows, so verification has to keep
// accepting them; callers should re-hash to Argon2id on the next
// successful login.

// LegacyHash computes the old fixed-salt digest. Only used to verify rows
// written by the previous backend and in migration tests.
func LegacyHash(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// IsLegacyHash reports whether a stored hash is in the old hex SHA-256
// format rather than PHC.
func IsLegacyHash(encoded string) bool {
	if len(encoded) != sha256.Size*2 {
		return false
	}
	for i := range len(encoded) {
		c := encoded[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// VerifyLegacy checks a password against an old fixed-salt digest.
func VerifyLegacy(password, salt, encoded string) error {
	computed := LegacyHash(password, salt)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(encoded)) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}
