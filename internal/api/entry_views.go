package api

import (
	"github.com/Leiracamera/clarityPMDD/internal/models"
	"github.com/Leiracamera/clarityPMDD/internal/services"
)

type entryView struct {
	ID           uint    `json:"entry_id"`
	Date         *string `json:"date"`
	Mood         *string `json:"mood"`
	Symptoms     *string `json:"symptoms"`
	EnergyLevel  *string `json:"energy_level"`
	SleepQuality *string `json:"sleep_quality"`
	Notes        *string `json:"notes"`
}

func (handler *Handler) entryView(entry models.Entry) entryView {
	view := entryView{
		ID:           entry.ID,
		Mood:         entry.Mood,
		Symptoms:     entry.Symptoms,
		EnergyLevel:  entry.EnergyLevel,
		SleepQuality: entry.SleepQuality,
		Notes:        entry.Notes,
	}
	if entry.Date != nil {
		day := services.FormatDay(*entry.Date)
		view.Date = &day
	}
	return view
}

func (handler *Handler) entryViews(entries []models.Entry) []entryView {
	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, handler.entryView(entry))
	}
	return views
}
