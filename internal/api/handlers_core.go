package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) ShowHome(c *fiber.Ctx) error {
	if user := handler.optionalIdentity(c); user != nil {
		c.Locals(contextUserKey, user)
	}
	return handler.render(c, "index", fiber.Map{
		"Flash": handler.popFlashCookie(c),
	})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	if user := handler.optionalIdentity(c); user != nil {
		c.Locals(contextUserKey, user)
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "error", fiber.Map{
		"Title":   "Clarity | Page Not Found",
		"Heading": "Page not found",
		"Message": "The page you are looking for does not exist.",
	})
}

// respondStoreFailure hides the cause from the client and logs it.
func (handler *Handler) respondStoreFailure(c *fiber.Ctx, err error, action string) error {
	handler.logger.Error("entry store failure", "action", action, "path", c.Path(), "error", err)
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}

	c.Status(fiber.StatusInternalServerError)
	return handler.render(c, "error", fiber.Map{
		"Title":   "Clarity | Error",
		"Heading": "Something went wrong",
		"Message": "Your request could not be completed. Please try again.",
	})
}
