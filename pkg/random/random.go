// Package random provides the password-generation capability used by
// buildTenantCred. It is injected rather than called as a package-level
// function so that tests can seed it deterministically, per the design note
// in SPEC_FULL.md ("Random password generation... treated as an injected
// capability").
package random

import (
	"crypto/rand"
	"encoding/base64"
)

// Generator produces fresh secret material for tenant credentials.
type Generator interface {
	Password() (string, error)
}

// Source is the production Generator, backed by crypto/rand.
type Source struct {
	// ByteLength is the amount of random bytes read before base64 encoding.
	// Defaults to 24 (32 character URL-safe output) when zero.
	ByteLength int
}

func (s Source) Password() (string, error) {
	n := s.ByteLength
	if n == 0 {
		n = 24
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fixed is a Generator test double that always returns the same value,
// letting reconciler tests assert exact tenant credential contents.
type Fixed string

func (f Fixed) Password() (string, error) {
	return string(f), nil
}
