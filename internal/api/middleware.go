package api

import (
	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	authCookieName       = "clarity_auth"
	flashCookieName      = "clarity_flash"
	oauthStateCookieName = "clarity_oauth_state"
	contextUserKey       = "current_user"
)

// entryRequest carries what the pipeline resolved before an entry route runs.
type entryRequest struct {
	Scope  models.EntryScope
	Viewer *models.User
}

type entryRoute func(c *fiber.Ctx, request entryRequest) error

// scoped runs identity resolution, then the access policy, then the route.
// A request the policy rejects never reaches the entry store.
func (handler *Handler) scoped(route entryRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := handler.optionalIdentity(c)

		scope, err := handler.policy.Resolve(identity)
		if err != nil {
			handler.logger.Warn("entry request rejected", "path", c.Path(), "method", c.Method(), "error", err)
			return rejectUnauthenticated(c)
		}

		if identity != nil {
			c.Locals(contextUserKey, identity)
		}
		return route(c, entryRequest{Scope: scope, Viewer: identity})
	}
}

func rejectUnauthenticated(c *fiber.Ctx) error {
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return redirectToPath(c, "/login")
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(contextUserKey).(*models.User)
	return user
}
