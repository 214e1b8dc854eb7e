package api

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/services"
)

// GoogleProvider performs the OAuth2 authorization code flow against Google.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (services.GoogleProfile, error)
}

type Options struct {
	Entries      *services.EntryService
	Auth         *services.AuthService
	Policy       services.AccessPolicy
	Google       GoogleProvider
	SecretKey    string
	CookieSecure bool
	Location     *time.Location
	Logger       *slog.Logger
}

type Handler struct {
	entries      *services.EntryService
	auth         *services.AuthService
	policy       services.AccessPolicy
	google       GoogleProvider
	secretKey    []byte
	cookieSecure bool
	cookieCodec  *secureCookieCodec
	location     *time.Location
	logger       *slog.Logger
	templates    map[string]*template.Template
	now          func() time.Time
}

func NewHandler(options Options) (*Handler, error) {
	if options.Entries == nil {
		return nil, errors.New("entry service is required")
	}
	if options.Policy.RequiresIdentity() && options.Auth == nil {
		return nil, errors.New("auth service is required in owner mode")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := newSecureCookieCodec([]byte(options.SecretKey))
	if err != nil {
		return nil, err
	}
	templates, err := parsePageTemplates(templateFuncMap())
	if err != nil {
		return nil, err
	}

	handler := &Handler{
		entries:      options.Entries,
		auth:         options.Auth,
		policy:       options.Policy,
		secretKey:    []byte(options.SecretKey),
		cookieSecure: options.CookieSecure,
		cookieCodec:  codec,
		location:     location,
		logger:       logger,
		templates:    templates,
		now:          time.Now,
	}
	if options.Google != nil && options.Policy.RequiresIdentity() {
		handler.google = options.Google
	}
	return handler, nil
}

func (handler *Handler) googleEnabled() bool {
	return handler.google != nil
}
