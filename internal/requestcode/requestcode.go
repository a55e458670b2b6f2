package requestcode

import (
	"crypto/rand"
	"regexp"
)

// Codes are short enough to read back over a call and typed by humans, so
// the alphabet is uppercase alphanumerics only.
const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 6
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// Generate returns a fresh 6-character correlation code. Collisions are
// statistically negligible; the store's unique index catches the rest and
// callers retry generation.
func Generate() string {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}

	return string(buf)
}

// IsValid reports whether s has the shape of a request code.
func IsValid(s string) bool {
	return codeRegex.MatchString(s)
}
