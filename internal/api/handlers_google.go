package api

import (
	"errors"
	"strings"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const oauthStateTTL = 10 * time.Minute

func (handler *Handler) StartGoogleLogin(c *fiber.Ctx) error {
	if !handler.googleEnabled() {
		return handler.NotFound(c)
	}

	state := uuid.NewString()
	sealed, err := handler.cookieCodec.seal(oauthStateCookieName, []byte(state))
	if err != nil {
		handler.logger.Error("seal oauth state failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    sealed,
		Path:     "/auth/google",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(oauthStateTTL),
	})
	return c.Redirect(handler.google.AuthCodeURL(state), fiber.StatusSeeOther)
}

func (handler *Handler) FinishGoogleLogin(c *fiber.Ctx) error {
	if !handler.googleEnabled() {
		return handler.NotFound(c)
	}

	expectedState := handler.popOAuthState(c)
	state := strings.TrimSpace(c.Query("state"))
	if expectedState == "" || state != expectedState {
		handler.logger.Warn("google callback rejected", "reason", "state mismatch")
		return handler.respondAuthError(c, fiber.StatusBadRequest, "google sign-in failed", "/login", FlashPayload{})
	}
	if providerError := strings.TrimSpace(c.Query("error")); providerError != "" {
		handler.logger.Info("google callback rejected", "reason", providerError)
		return handler.respondAuthError(c, fiber.StatusBadRequest, "google sign-in failed", "/login", FlashPayload{})
	}

	profile, err := handler.google.Exchange(c.UserContext(), strings.TrimSpace(c.Query("code")))
	if err != nil {
		handler.logger.Warn("google code exchange failed", "error", err)
		return handler.respondAuthError(c, fiber.StatusBadGateway, "google sign-in failed", "/login", FlashPayload{})
	}

	user, err := handler.auth.ResolveGoogleUser(c.UserContext(), profile)
	switch {
	case errors.Is(err, services.ErrGoogleAccountLinked):
		return handler.respondAuthError(c, fiber.StatusConflict, "google account conflict", "/login", FlashPayload{LoginEmail: profile.Email})
	case errors.Is(err, services.ErrGoogleProfileEmpty), errors.Is(err, services.ErrGoogleEmailUnverified):
		return handler.respondAuthError(c, fiber.StatusBadRequest, "google sign-in failed", "/login", FlashPayload{})
	case err != nil:
		handler.logger.Error("resolve google user failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}

	if err := handler.setAuthCookie(c, &user, true); err != nil {
		handler.logger.Error("create session failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return redirectOrJSON(c, postLoginPath)
}

func (handler *Handler) popOAuthState(c *fiber.Ctx) string {
	raw := strings.TrimSpace(c.Cookies(oauthStateCookieName))
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/auth/google",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(-1 * time.Hour),
	})
	if raw == "" {
		return ""
	}

	state, err := handler.cookieCodec.open(oauthStateCookieName, raw)
	if err != nil {
		return ""
	}
	return string(state)
}
