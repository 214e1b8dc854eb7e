package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserLookupFailed      = errors.New("user lookup failed")
	ErrUserCreateFailed      = errors.New("user create failed")
	ErrGoogleProfileEmpty    = errors.New("google profile incomplete")
	ErrGoogleAccountLinked   = errors.New("email linked to another google account")
	ErrGoogleEmailUnverified = errors.New("google email not verified")
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	FindByGoogleID(ctx context.Context, googleID string) (models.User, bool, error)
	FindByID(ctx context.Context, userID uint) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	LinkGoogleID(ctx context.Context, userID uint, googleID string) error
}

type RegistrationInput struct {
	Email           string `form:"email"`
	Username        string `form:"username"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

type AuthService struct {
	users AuthUserRepository
	now   func() time.Time
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users, now: time.Now}
}

func (service *AuthService) Register(ctx context.Context, input RegistrationInput) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if password != strings.TrimSpace(input.ConfirmPassword) {
		return models.User{}, ErrPasswordMismatch
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}
	if exists {
		return models.User{}, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	passwordHash := string(hash)

	user := models.User{
		Email:        email,
		PasswordHash: &passwordHash,
		Username:     NormalizeUsername(input.Username, email),
		CreatedAt:    service.now().UTC(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserCreateFailed, err)
	}
	return user, nil
}

// Authenticate never reveals whether the email exists.
func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	user, found, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}
	if !found || !user.HasPassword() {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	return service.users.FindByID(ctx, userID)
}

// ResolveGoogleUser finds the account for a Google profile: by google id,
// then by email (linking the id), otherwise a new password-less account.
// An unverified Google email never links to or creates an account.
func (service *AuthService) ResolveGoogleUser(ctx context.Context, profile GoogleProfile) (models.User, error) {
	googleID := strings.TrimSpace(profile.ID)
	email := NormalizeAuthEmail(profile.Email)
	if googleID == "" || email == "" {
		return models.User{}, ErrGoogleProfileEmpty
	}

	user, found, err := service.users.FindByGoogleID(ctx, googleID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}
	if found {
		return user, nil
	}
	if !profile.EmailVerified {
		return models.User{}, ErrGoogleEmailUnverified
	}

	user, found, err = service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}
	if found {
		if user.GoogleID != nil && *user.GoogleID != googleID {
			return models.User{}, ErrGoogleAccountLinked
		}
		if err := service.users.LinkGoogleID(ctx, user.ID, googleID); err != nil {
			return models.User{}, fmt.Errorf("%w: %w", ErrUserCreateFailed, err)
		}
		user.GoogleID = &googleID
		return user, nil
	}

	user = models.User{
		Email:     email,
		GoogleID:  &googleID,
		Username:  NormalizeUsername(profile.Name, email),
		CreatedAt: service.now().UTC(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrUserCreateFailed, err)
	}
	return user, nil
}
