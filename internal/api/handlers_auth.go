package api

import (
	"errors"

	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
)

const postLoginPath = "/entries"

type credentialsInput struct {
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RememberMe bool   `json:"remember_me" form:"remember_me"`
}

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if handler.optionalIdentity(c) != nil {
		return c.Redirect(postLoginPath, fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", fiber.Map{
		"Title": "Clarity | Log In",
		"Email": flash.LoginEmail,
		"Flash": flash,
	})
}

func (handler *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	if handler.optionalIdentity(c) != nil {
		return c.Redirect(postLoginPath, fiber.StatusSeeOther)
	}
	flash := handler.popFlashCookie(c)
	return handler.render(c, "register", fiber.Map{
		"Title": "Clarity | Register",
		"Email": flash.RegisterEmail,
		"Flash": flash,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input", "/login", FlashPayload{})
	}

	user, err := handler.auth.Authenticate(c.UserContext(), input.Email, input.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		handler.logger.Info("login rejected", "reason", "invalid credentials")
		return handler.respondAuthError(c, fiber.StatusUnauthorized, "invalid credentials", "/login", FlashPayload{LoginEmail: input.Email})
	}
	if err != nil {
		handler.logger.Error("login failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}

	if err := handler.setAuthCookie(c, &user, input.RememberMe); err != nil {
		handler.logger.Error("create session failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return redirectOrJSON(c, postLoginPath)
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := services.RegistrationInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input", "/register", FlashPayload{})
	}
	flash := FlashPayload{RegisterEmail: input.Email}

	user, err := handler.auth.Register(c.UserContext(), input)
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return handler.respondAuthError(c, fiber.StatusBadRequest, "invalid input", "/register", flash)
	case errors.Is(err, services.ErrPasswordMismatch):
		return handler.respondAuthError(c, fiber.StatusBadRequest, "password mismatch", "/register", flash)
	case errors.Is(err, services.ErrWeakPassword):
		return handler.respondAuthError(c, fiber.StatusBadRequest, "weak password", "/register", flash)
	case errors.Is(err, services.ErrEmailAlreadyExists):
		return handler.respondAuthError(c, fiber.StatusConflict, "email already exists", "/register", flash)
	case err != nil:
		handler.logger.Error("register failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "something went wrong")
	}

	if err := handler.setAuthCookie(c, &user, false); err != nil {
		handler.logger.Error("create session failed", "user_id", user.ID, "error", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.logger.Info("user registered", "user_id", user.ID)

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	}
	return redirectToPath(c, postLoginPath)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return redirectOrJSON(c, "/login")
}

// respondAuthError sends form posts back to their page with the message in a
// flash cookie and answers API clients with a status code.
func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, message string, pagePath string, flash FlashPayload) error {
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, message)
	}
	flash.Error = authErrorMessage(message)
	handler.setFlashCookie(c, flash)
	return c.Redirect(pagePath, fiber.StatusSeeOther)
}

func authErrorMessage(message string) string {
	switch message {
	case "invalid credentials":
		return "Email or password is incorrect."
	case "password mismatch":
		return "Passwords do not match."
	case "weak password":
		return "Use at least 8 characters with upper and lower case letters and a digit."
	case "email already exists":
		return "An account with this email already exists."
	case "google sign-in failed":
		return "Google sign-in failed. Please try again."
	case "google account conflict":
		return "This email is already linked to a different Google account."
	default:
		return "Please check the form and try again."
	}
}
