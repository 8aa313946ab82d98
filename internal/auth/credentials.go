// Package auth owns credentials: generation, hashing and the login flow.
package auth

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Authority is the credential authority: it derives initial credentials from
// a customer name and owns the one-way hash.
type Authority struct{}

// NewAuthority constructs the bcrypt-backed authority.
func NewAuthority() *Authority {
	return &Authority{}
}

// Generate derives a username by stripping non-alphanumerics from the name
// and lower-casing, and a password of the name without spaces followed by
// four random decimal digits. Usernames are not guaranteed unique.
func (a *Authority) Generate(name string) (username, password string) {
	username = strings.ToLower(nonAlphanumeric.ReplaceAllString(name, ""))

	digits := make([]byte, 4)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failing means the platform is broken; a zero
			// digit keeps account creation working.
			n = big.NewInt(0)
		}
		digits[i] = byte('0' + n.Int64())
	}
	password = strings.ReplaceAll(name, " ", "") + string(digits)
	return username, password
}

// Hash produces the stored form of a password.
func (a *Authority) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash.
func (a *Authority) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
