package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
)

const DateLayout = "2006-01-02"

var ErrInvalidEntryDate = errors.New("invalid entry date")

// EntryInput holds the raw submitted values. A nil or blank value means the
// field was not supplied.
type EntryInput struct {
	Date         *string `json:"date" form:"date"`
	Mood         *string `json:"mood" form:"mood"`
	Symptoms     *string `json:"symptoms" form:"symptoms"`
	EnergyLevel  *string `json:"energy_level" form:"energy_level"`
	SleepQuality *string `json:"sleep_quality" form:"sleep_quality"`
	Notes        *string `json:"notes" form:"notes"`
}

// UnmarshalJSON accepts any JSON value per field and keeps it as text, so
// {"mood": 3} stores "3".
func (input *EntryInput) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	*input = EntryInput{
		Date:         looseText(raw["date"]),
		Mood:         looseText(raw["mood"]),
		Symptoms:     looseText(raw["symptoms"]),
		EnergyLevel:  looseText(raw["energy_level"]),
		SleepQuality: looseText(raw["sleep_quality"]),
		Notes:        looseText(raw["notes"]),
	}
	return nil
}

func looseText(value any) *string {
	var text string
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		text = typed
	case json.Number:
		text = typed.String()
	case bool:
		text = strconv.FormatBool(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return nil
		}
		text = string(encoded)
	}
	return &text
}

func NormalizeEntryInput(input EntryInput, location *time.Location) (models.EntryFields, error) {
	fields := models.EntryFields{
		Mood:         suppliedValue(input.Mood),
		Symptoms:     suppliedValue(input.Symptoms),
		EnergyLevel:  suppliedValue(input.EnergyLevel),
		SleepQuality: suppliedValue(input.SleepQuality),
		Notes:        suppliedValue(input.Notes),
	}

	if raw := suppliedValue(input.Date); raw != nil {
		day, err := ParseDay(*raw, location)
		if err != nil {
			return models.EntryFields{}, err
		}
		fields.Date = &day
	}
	return fields, nil
}

func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidEntryDate
	}
	return day, nil
}

// FormatDay renders a stored date from its own calendar fields. Postgres
// returns DATE columns at UTC midnight, so converting zones would move the day.
func FormatDay(day time.Time) string {
	return day.Format(DateLayout)
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func suppliedValue(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	return &value
}
