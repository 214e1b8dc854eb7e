package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/", handler.ShowHome)

	if handler.policy.RequiresIdentity() {
		registerAuthRoutes(app, handler)
	}
	registerEntryRoutes(app, handler)
}

func registerAuthRoutes(app *fiber.App, handler *Handler) {
	app.Get("/login", handler.ShowLoginPage)
	app.Post("/login", handler.Login)
	app.Get("/register", handler.ShowRegisterPage)
	app.Post("/register", handler.Register)
	app.Post("/logout", handler.Logout)

	app.Get("/auth/google", handler.StartGoogleLogin)
	app.Get("/auth/google/callback", handler.FinishGoogleLogin)
}

func registerEntryRoutes(app *fiber.App, handler *Handler) {
	app.Get("/entries", handler.scoped(handler.ListEntries))
	app.Post("/entries", handler.scoped(handler.CreateEntry))
	app.Get("/new-entry", handler.scoped(handler.ShowNewEntry))
	app.Post("/new-entry", handler.scoped(handler.CreateEntry))
	app.Get("/edit/:id", handler.scoped(handler.ShowEditEntry))
	app.Post("/edit/:id", handler.scoped(handler.UpdateEntry))
	app.Post("/delete/:id", handler.scoped(handler.DeleteEntry))
	app.Get("/search", handler.scoped(handler.SearchEntries))
	app.Get("/analytics", handler.scoped(handler.ShowAnalytics))
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
