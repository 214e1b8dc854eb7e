package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/Leiracamera/clarityPMDD/internal/security"
	"github.com/Leiracamera/clarityPMDD/internal/services"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

type PasswordResetStore interface {
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

// ResetOptions.Password is used instead of a generated password when set.
type ResetOptions struct {
	Email    string
	Password string
}

// RunResetPasswordCommand sets a new password for a local account and prints
// it when it was generated.
func RunResetPasswordCommand(ctx context.Context, users PasswordResetStore, options ResetOptions, out io.Writer) error {
	email := services.NormalizeAuthEmail(options.Email)
	if email == "" {
		return errors.New("a valid email is required")
	}

	user, found, err := users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if !found {
		return fmt.Errorf("user %s not found", email)
	}

	password := options.Password
	generated := password == ""
	if generated {
		password, err = generateTemporaryPassword(12)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
	} else if err := services.ValidatePasswordStrength(password); err != nil {
		return errors.New("password must be at least 8 characters with upper and lower case letters and a digit")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.UpdatePassword(ctx, user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", email)
	if generated {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}

// PromptPassword asks twice on the terminal without echo.
func PromptPassword(stdin *os.File, out io.Writer) (string, error) {
	fmt.Fprint(out, "New password: ")
	first, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(out, "Repeat password: ")
	second, err := readPasswordNoEcho(stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password is required")
	}
	return string(first), nil
}

func generateTemporaryPassword(length int) (string, error) {
	if length < services.MinPasswordLength {
		length = services.MinPasswordLength
	}
	for {
		password, err := security.RandomString(length, temporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if services.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
}
