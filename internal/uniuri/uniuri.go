package uniuri

import (
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	// StdLen is the default length of a random string.
	StdLen = 16
	// InviteLen is the length of group invite codes.
	InviteLen = 10

	maxBufLen = 256
	byteRange = 256
)

var (
	// StdChars is a set of standard characters allowed in a random string.
	StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789") //nolint:gochecknoglobals
	// InviteChars leaves out characters that are easily mistaken when typed from a screen.
	InviteChars = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789") //nolint:gochecknoglobals

	// ErrCharsetLength is returned for charsets with fewer than 2 or more than 256 characters.
	ErrCharsetLength = errors.New("uniuri: wrong charset length")
)

// New returns a random string of StdLen standard characters.
func New() (string, error) {
	return NewLenChars(StdLen, StdChars)
}

// NewInviteCode returns a random invite code.
func NewInviteCode() (string, error) {
	return NewLenChars(InviteLen, InviteChars)
}

// NewLenChars returns a random string of length characters drawn from chars.
// Bytes above the largest multiple of len(chars) are rejected to avoid modulo bias.
func NewLenChars(length int, chars []byte) (string, error) {
	if length <= 0 {
		return "", nil
	}

	clen := len(chars)
	if clen < 2 || clen > byteRange {
		return "", ErrCharsetLength
	}

	limit := byteRange - (byteRange % clen)
	buf := make([]byte, min(length*2, maxBufLen))
	out := make([]byte, 0, length)

	for {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("uniuri: error reading random bytes: %w", err)
		}

		for _, rb := range buf {
			if int(rb) >= limit {
				continue
			}

			out = append(out, chars[int(rb)%clen])
			if len(out) == length {
				return string(out), nil
			}
		}
	}
}
