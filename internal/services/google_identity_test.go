package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newGoogleTestServer(t *testing.T, userInfo string, userInfoStatus int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse token form: %v", err)
		}
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"token-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userInfoStatus)
		_, _ = w.Write([]byte(userInfo))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGoogleIdentityForServer(server *httptest.Server) *GoogleIdentity {
	return NewGoogleIdentity(GoogleIdentityConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost/auth/google/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   server.URL + "/auth",
			TokenURL:  server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		UserInfoURL: server.URL + "/userinfo",
	})
}

func TestGoogleIdentityAuthCodeURLCarriesState(t *testing.T) {
	identity := NewGoogleIdentity(GoogleIdentityConfig{ClientID: "client-id", RedirectURL: "http://localhost/cb"})

	raw := identity.AuthCodeURL("state-123")
	if !strings.HasPrefix(raw, "https://accounts.google.com/") {
		t.Fatalf("expected google auth endpoint by default, got %q", raw)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	query := parsed.Query()
	if query.Get("state") != "state-123" {
		t.Fatalf("expected state in auth url, got %q", query.Get("state"))
	}
	if query.Get("client_id") != "client-id" {
		t.Fatalf("expected client id in auth url, got %q", query.Get("client_id"))
	}
}

func TestGoogleIdentityExchangeReturnsProfile(t *testing.T) {
	server := newGoogleTestServer(t, `{"sub":"g-1","email":"User@Example.com","email_verified":true,"name":"User"}`, http.StatusOK)
	identity := newGoogleIdentityForServer(server)

	profile, err := identity.Exchange(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Exchange() unexpected error: %v", err)
	}
	if profile.ID != "g-1" || profile.Email != "User@Example.com" || profile.Name != "User" {
		t.Fatalf("unexpected profile %#v", profile)
	}
}

func TestGoogleIdentityExchangeRejectsBadCode(t *testing.T) {
	server := newGoogleTestServer(t, `{}`, http.StatusOK)
	identity := newGoogleIdentityForServer(server)

	if _, err := identity.Exchange(context.Background(), "bad-code"); !errors.Is(err, ErrGoogleExchangeFailed) {
		t.Fatalf("expected ErrGoogleExchangeFailed, got %v", err)
	}
}

func TestGoogleIdentityExchangeRejectsIncompleteProfile(t *testing.T) {
	server := newGoogleTestServer(t, `{"sub":"g-1"}`, http.StatusOK)
	identity := newGoogleIdentityForServer(server)

	if _, err := identity.Exchange(context.Background(), "good-code"); !errors.Is(err, ErrGoogleProfileEmpty) {
		t.Fatalf("expected ErrGoogleProfileEmpty, got %v", err)
	}
}

func TestGoogleIdentityExchangeRejectsUserInfoFailure(t *testing.T) {
	server := newGoogleTestServer(t, `{}`, http.StatusInternalServerError)
	identity := newGoogleIdentityForServer(server)

	if _, err := identity.Exchange(context.Background(), "good-code"); !errors.Is(err, ErrGoogleExchangeFailed) {
		t.Fatalf("expected ErrGoogleExchangeFailed, got %v", err)
	}
}
