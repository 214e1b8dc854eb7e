package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

const (
	MinPasswordLength = 8
	MaxUsernameLength = 64
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrWeakPassword           = errors.New("weak password")
	ErrPasswordMismatch       = errors.New("password mismatch")
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// NormalizeUsername falls back to the local part of the email.
func NormalizeUsername(raw string, email string) string {
	username := strings.Join(strings.Fields(raw), " ")
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}
	runes := []rune(username)
	if len(runes) > MaxUsernameLength {
		username = string(runes[:MaxUsernameLength])
	}
	return username
}

// ValidatePasswordStrength requires eight characters with upper, lower and digit.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
