package common

import "strings"

// WipeByteArray overwrites b with zeros. Used to drop passwords read from
// the terminal as soon as they have been sent. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail returns the canonical form under which emails are stored
// and compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
