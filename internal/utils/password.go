package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// Password hashing parameters. These must not change: rows already stored in
// the user table were produced with exactly these values, and changing them
// would invalidate every existing credential.
const (
	hashIterations = 10000
	saltLength     = 16
)

// GenerateSalt returns a base64-encoded random salt of saltLength bytes.
func GenerateSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// hashWithSalt computes the iterated SHA-256 digest of password+salt and
// returns it base64-encoded. The first digest covers the salted password;
// each following iteration re-hashes the previous digest.
func hashWithSalt(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	for i := 0; i < hashIterations; i++ {
		sum = sha256.Sum256(sum[:])
	}
	return base64.StdEncoding.EncodeToString(sum[:])
}

// SecurePassword hashes a plain password with a fresh salt and returns the
// stored form "base64(hash):base64(salt)".
func SecurePassword(plain string) (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	return hashWithSalt(plain, salt) + ":" + salt, nil
}

// VerifyPassword checks a plain password against a stored credential.
// Credentials containing a ':' separator are salted hashes; anything else is
// a legacy plain-text row, accepted on exact match so that accounts created
// before hashing was introduced can still sign in. Callers should re-hash
// the password after a successful legacy match (see IsLegacyPassword).
func VerifyPassword(stored, plain string) bool {
	hash, salt, ok := strings.Cut(stored, ":")
	if !ok {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
	}
	computed := hashWithSalt(plain, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// IsLegacyPassword reports whether a stored credential is still in the
// plain-text form and should be upgraded on next successful login.
func IsLegacyPassword(stored string) bool {
	return !strings.Contains(stored, ":")
}
