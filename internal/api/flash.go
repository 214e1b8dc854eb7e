package api

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
)

// FlashPayload is the one-shot status shown on the next rendered page.
type FlashPayload struct {
	Status        string `json:"status,omitempty"`
	Error         string `json:"error,omitempty"`
	LoginEmail    string `json:"login_email,omitempty"`
	RegisterEmail string `json:"register_email,omitempty"`
}

func (payload FlashPayload) normalized() FlashPayload {
	payload.Status = strings.TrimSpace(payload.Status)
	payload.Error = strings.TrimSpace(payload.Error)
	payload.LoginEmail = services.NormalizeAuthEmail(payload.LoginEmail)
	payload.RegisterEmail = services.NormalizeAuthEmail(payload.RegisterEmail)
	return payload
}

func (payload FlashPayload) empty() bool {
	return payload.Status == "" && payload.Error == "" && payload.LoginEmail == "" && payload.RegisterEmail == ""
}

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload = payload.normalized()
	if payload.empty() {
		handler.clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(serialized),
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(5 * time.Minute),
	})
}

func (handler *Handler) popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	handler.clearFlashCookie(c)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return FlashPayload{}
	}

	payload := FlashPayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return FlashPayload{}
	}
	return payload.normalized()
}

func (handler *Handler) clearFlashCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(-1 * time.Hour),
	})
}
