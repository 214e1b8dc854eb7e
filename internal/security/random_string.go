package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
	errLargeAlphabet  = errors.New("alphabet must have at most 256 characters")
)

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes above the largest multiple of len(alphabet) are discarded so every
// character is equally likely.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case len(alphabet) == 0:
		return "", errEmptyAlphabet
	case len(alphabet) > 256:
		return "", errLargeAlphabet
	}

	limit := 256 - 256%len(alphabet)
	value := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, candidate := range buffer {
			if int(candidate) >= limit {
				continue
			}
			value = append(value, alphabet[int(candidate)%len(alphabet)])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
