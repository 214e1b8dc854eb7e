package api

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageTemplates = []string{
	"index",
	"entries",
	"entry_form",
	"search",
	"analytics",
	"login",
	"register",
	"error",
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDay": func(value *time.Time) string {
			if value == nil || value.IsZero() {
				return ""
			}
			return services.FormatDay(*value)
		},
		"text": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"isActiveRoute": isActiveTemplateRoute,
		"toJSON":        templateToJSON,
	}
}

func parsePageTemplates(funcMap template.FuncMap) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		parsed, err := template.New("base").Funcs(funcMap).ParseFS(
			templateFiles,
			"templates/base.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page template %s: %w", page, err)
		}
		templates[page] = parsed
	}
	return templates, nil
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}

	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", handler.withTemplateDefaults(c, data)); err != nil {
		handler.logger.Error("render template failed", "template", name, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	payload := fiber.Map{
		"Title":         "Clarity",
		"CSRFToken":     csrfToken(c),
		"CurrentPath":   c.OriginalURL(),
		"CurrentUser":   currentUser(c),
		"AuthEnabled":   handler.policy.RequiresIdentity(),
		"GoogleEnabled": handler.googleEnabled(),
	}
	for key, value := range data {
		payload[key] = value
	}
	return payload
}

func isActiveTemplateRoute(currentPath string, route string) bool {
	path := strings.TrimSpace(currentPath)
	if path == "" {
		return route == "/"
	}
	if route == "/" {
		return path == "/" || strings.HasPrefix(path, "/?")
	}
	return path == route || strings.HasPrefix(path, route+"?") || strings.HasPrefix(path, route+"/")
}

func templateToJSON(value any) template.JS {
	serialized, err := json.Marshal(value)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(serialized)
}
