package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var ErrGoogleExchangeFailed = errors.New("google code exchange failed")

type GoogleProfile struct {
	ID            string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

type GoogleIdentityConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint and UserInfoURL default to Google's.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

type GoogleIdentity struct {
	oauth       *oauth2.Config
	userInfoURL string
}

func NewGoogleIdentity(config GoogleIdentityConfig) *GoogleIdentity {
	endpoint := config.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := config.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = GoogleUserInfoURL
	}

	return &GoogleIdentity{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

func (identity *GoogleIdentity) AuthCodeURL(state string) string {
	return identity.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the signed-in Google profile.
func (identity *GoogleIdentity) Exchange(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := identity.oauth.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("%w: %w", ErrGoogleExchangeFailed, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, identity.userInfoURL, nil)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("build userinfo request: %w", err)
	}
	response, err := identity.oauth.Client(ctx, token).Do(request)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("%w: userinfo: %w", ErrGoogleExchangeFailed, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, response.Body)
		return GoogleProfile{}, fmt.Errorf("%w: userinfo status %d", ErrGoogleExchangeFailed, response.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(response.Body).Decode(&profile); err != nil {
		return GoogleProfile{}, fmt.Errorf("%w: decode userinfo: %w", ErrGoogleExchangeFailed, err)
	}
	if profile.ID == "" || profile.Email == "" {
		return GoogleProfile{}, ErrGoogleProfileEmpty
	}
	return profile, nil
}
