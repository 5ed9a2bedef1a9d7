// Package cryptox provides the credential primitives used by userkeeper:
// salt generation, the legacy salt+secret digest, and one-time access codes.
package cryptox

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// saltSize is the number of random bytes in a freshly generated salt.
// The resulting hex string is twice as long.
const saltSize = 16

// accessCodeAlphabet is the character set access codes are drawn from.
const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// AccessCodeLength is the number of characters in a one-time access code.
const AccessCodeLength = 6

// Digest returns the lowercase hexadecimal MD5 digest of the UTF-8 bytes
// of s, left-padded with zeros to 32 characters.
//
// MD5 keeps digests byte-compatible with previously exported salt:hash
// records; it is not suitable as a general-purpose password KDF.
func Digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewSalt generates a random per-user salt as a hexadecimal string.
//
// A salt is generated once per user and never rotated. It returns an error
// only if the random number generator fails.
func NewSalt() (string, error) {
	b := make([]byte, saltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewAccessCode generates a random one-time access code of AccessCodeLength
// characters drawn uniformly (with replacement) from uppercase letters,
// lowercase letters, and digits.
//
// Uniformity is preserved by rejection sampling: random bytes that would
// bias the modulo reduction are discarded.
func NewAccessCode() (string, error) {
	// Largest multiple of len(alphabet) that fits in a byte.
	max := byte(256 - 256%len(accessCodeAlphabet))

	code := make([]byte, 0, AccessCodeLength)
	buf := make([]byte, 1)
	for len(code) < AccessCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("error generating access code: %w", err)
		}
		if buf[0] >= max {
			continue
		}
		code = append(code, accessCodeAlphabet[int(buf[0])%len(accessCodeAlphabet)])
	}
	return string(code), nil
}
