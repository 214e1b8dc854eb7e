package api

import (
	"errors"
	"strings"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	flashEntrySaved    = "Entry saved."
	flashEntryUpdated  = "Entry updated."
	flashEntryDeleted  = "Entry deleted."
	flashEntryNotFound = "Entry not found."
	searchNoMatch      = "No entry found for this date."
	searchInvalidDate  = "Please enter a date as YYYY-MM-DD."
)

func (handler *Handler) ListEntries(c *fiber.Ctx, request entryRequest) error {
	entries, err := handler.entries.List(c.UserContext(), request.Scope)
	if err != nil {
		return handler.respondStoreFailure(c, err, "list")
	}

	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"entries": handler.entryViews(entries)})
	}
	return handler.render(c, "entries", fiber.Map{
		"Title":   "Clarity | Entries",
		"Entries": entries,
		"Flash":   handler.popFlashCookie(c),
	})
}

func (handler *Handler) ShowNewEntry(c *fiber.Ctx, _ entryRequest) error {
	return handler.render(c, "entry_form", fiber.Map{
		"Title":     "Clarity | New Entry",
		"Heading":   "New entry",
		"Action":    "/entries",
		"Entry":     models.Entry{},
		"DateValue": handler.now().In(handler.location).Format(services.DateLayout),
		"Flash":     handler.popFlashCookie(c),
	})
}

func (handler *Handler) CreateEntry(c *fiber.Ctx, request entryRequest) error {
	fields, err := handler.parseEntryFields(c)
	if err != nil {
		return handler.respondEntryInputError(c, err, "/new-entry")
	}

	entry, err := handler.entries.Create(c.UserContext(), fields, request.Scope)
	if err != nil {
		return handler.respondStoreFailure(c, err, "insert")
	}

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "entry": handler.entryView(entry)})
	}
	return handler.redirectWithFlash(c, "/entries", flashEntrySaved)
}

func (handler *Handler) ShowEditEntry(c *fiber.Ctx, request entryRequest) error {
	entryID, ok := entryIDParam(c)
	if !ok {
		return handler.respondEntryNotFound(c, 0)
	}

	entry, err := handler.entries.Find(c.UserContext(), request.Scope, entryID)
	if errors.Is(err, services.ErrEntryNotFound) {
		return handler.respondEntryNotFound(c, entryID)
	}
	if err != nil {
		return handler.respondStoreFailure(c, err, "find")
	}

	if acceptsJSON(c) {
		return c.JSON(handler.entryView(entry))
	}
	dateValue := ""
	if entry.Date != nil {
		dateValue = services.FormatDay(*entry.Date)
	}
	return handler.render(c, "entry_form", fiber.Map{
		"Title":     "Clarity | Edit Entry",
		"Heading":   "Edit entry",
		"Action":    "/edit/" + c.Params("id"),
		"Entry":     entry,
		"DateValue": dateValue,
		"Flash":     handler.popFlashCookie(c),
	})
}

// UpdateEntry keeps the stored value of every field left blank, so a field
// can be changed but never cleared back to empty.
func (handler *Handler) UpdateEntry(c *fiber.Ctx, request entryRequest) error {
	entryID, ok := entryIDParam(c)
	if !ok {
		return handler.respondEntryNotFound(c, 0)
	}
	fields, err := handler.parseEntryFields(c)
	if err != nil {
		return handler.respondEntryInputError(c, err, "/edit/"+c.Params("id"))
	}

	err = handler.entries.Update(c.UserContext(), entryID, fields, request.Scope)
	if errors.Is(err, services.ErrEntryNotFound) {
		return handler.respondEntryNotFound(c, entryID)
	}
	if err != nil {
		return handler.respondStoreFailure(c, err, "update")
	}

	return handler.redirectWithFlash(c, "/entries", flashEntryUpdated)
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx, request entryRequest) error {
	entryID, ok := entryIDParam(c)
	if !ok {
		return handler.respondEntryNotFound(c, 0)
	}

	err := handler.entries.Delete(c.UserContext(), entryID, request.Scope)
	if errors.Is(err, services.ErrEntryNotFound) {
		return handler.respondEntryNotFound(c, entryID)
	}
	if err != nil {
		return handler.respondStoreFailure(c, err, "delete")
	}

	return handler.redirectWithFlash(c, "/entries", flashEntryDeleted)
}

// SearchEntries renders the empty search form when no date was submitted.
func (handler *Handler) SearchEntries(c *fiber.Ctx, request entryRequest) error {
	query := strings.TrimSpace(c.Query("date"))
	data := fiber.Map{
		"Title": "Clarity | Search",
		"Query": query,
	}
	if query == "" {
		if acceptsJSON(c) {
			return c.JSON(fiber.Map{"found": false})
		}
		return handler.render(c, "search", data)
	}

	day, err := services.ParseDay(query, handler.location)
	if err != nil {
		if acceptsJSON(c) {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		data["Message"] = searchInvalidDate
		c.Status(fiber.StatusBadRequest)
		return handler.render(c, "search", data)
	}

	entry, found, err := handler.entries.FindByDate(c.UserContext(), request.Scope, day)
	if err != nil {
		return handler.respondStoreFailure(c, err, "find_by_date")
	}

	if acceptsJSON(c) {
		if !found {
			return c.JSON(fiber.Map{"found": false, "message": searchNoMatch})
		}
		return c.JSON(fiber.Map{"found": true, "entry": handler.entryView(entry)})
	}
	if !found {
		data["Message"] = searchNoMatch
	} else {
		data["Entry"] = &entry
	}
	return handler.render(c, "search", data)
}

func (handler *Handler) ShowAnalytics(c *fiber.Ctx, request entryRequest) error {
	trend, err := handler.entries.MoodTrend(c.UserContext(), request.Scope, handler.now())
	if err != nil {
		return handler.respondStoreFailure(c, err, "mood_trend")
	}

	if acceptsJSON(c) {
		return c.JSON(trend)
	}
	return handler.render(c, "analytics", fiber.Map{
		"Title": "Clarity | Analytics",
		"Trend": trend,
	})
}

func (handler *Handler) parseEntryFields(c *fiber.Ctx) (models.EntryFields, error) {
	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return models.EntryFields{}, err
	}
	return services.NormalizeEntryInput(input, handler.location)
}

func (handler *Handler) respondEntryInputError(c *fiber.Ctx, err error, formPath string) error {
	message := "invalid input"
	if errors.Is(err, services.ErrInvalidEntryDate) {
		message = "invalid date"
	}
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	handler.setFlashCookie(c, FlashPayload{Error: "Could not save the entry: " + message + "."})
	return redirectToPath(c, formPath)
}

// respondEntryNotFound covers ids that do not exist and ids owned by someone
// else; the two cases are reported identically.
func (handler *Handler) respondEntryNotFound(c *fiber.Ctx, entryID uint) error {
	handler.logger.Info("entry not found", "entry_id", entryID, "path", c.Path(), "method", c.Method())
	if acceptsJSON(c) || isHTMX(c) {
		return apiError(c, fiber.StatusNotFound, "entry not found")
	}
	handler.setFlashCookie(c, FlashPayload{Error: flashEntryNotFound})
	return redirectToPath(c, "/entries")
}

func (handler *Handler) redirectWithFlash(c *fiber.Ctx, path string, status string) error {
	if !acceptsJSON(c) {
		handler.setFlashCookie(c, FlashPayload{Status: status})
	}
	return redirectOrJSON(c, path)
}

func entryIDParam(c *fiber.Ctx) (uint, bool) {
	value, err := c.ParamsInt("id")
	if err != nil || value <= 0 {
		return 0, false
	}
	return uint(value), true
}
