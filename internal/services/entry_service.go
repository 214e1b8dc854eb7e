package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
)

var (
	ErrEntryNotFound     = errors.New("entry not found")
	ErrEntryListFailed   = errors.New("list entries failed")
	ErrEntryLoadFailed   = errors.New("load entry failed")
	ErrEntryCreateFailed = errors.New("create entry failed")
	ErrEntryUpdateFailed = errors.New("update entry failed")
	ErrEntryDeleteFailed = errors.New("delete entry failed")
)

type EntryStore interface {
	List(ctx context.Context, scope models.EntryScope) ([]models.Entry, error)
	FindByID(ctx context.Context, scope models.EntryScope, entryID uint) (models.Entry, bool, error)
	FindByDate(ctx context.Context, scope models.EntryScope, dayStart time.Time) (models.Entry, bool, error)
	ListMoodSince(ctx context.Context, scope models.EntryScope, since time.Time) ([]models.MoodPoint, error)
	Insert(ctx context.Context, fields models.EntryFields, scope models.EntryScope) (models.Entry, error)
	Update(ctx context.Context, entryID uint, fields models.EntryFields, scope models.EntryScope) (int64, error)
	Delete(ctx context.Context, entryID uint, scope models.EntryScope) (int64, error)
}

// MoodTrend is the chart payload: two parallel arrays.
type MoodTrend struct {
	Dates []string `json:"dates"`
	Moods []string `json:"moods"`
}

type EntryService struct {
	entries  EntryStore
	location *time.Location
}

func NewEntryService(entries EntryStore, location *time.Location) *EntryService {
	if location == nil {
		location = time.UTC
	}
	return &EntryService{entries: entries, location: location}
}

func (service *EntryService) List(ctx context.Context, scope models.EntryScope) ([]models.Entry, error) {
	entries, err := service.entries.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntryListFailed, err)
	}
	return entries, nil
}

func (service *EntryService) Find(ctx context.Context, scope models.EntryScope, entryID uint) (models.Entry, error) {
	entry, found, err := service.entries.FindByID(ctx, scope, entryID)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrEntryLoadFailed, err)
	}
	if !found {
		return models.Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// FindByDate reports the first entry on the given day; found is false when
// the day has no entry.
func (service *EntryService) FindByDate(ctx context.Context, scope models.EntryScope, day time.Time) (models.Entry, bool, error) {
	entry, found, err := service.entries.FindByDate(ctx, scope, DateAtLocation(day, service.location))
	if err != nil {
		return models.Entry{}, false, fmt.Errorf("%w: %w", ErrEntryLoadFailed, err)
	}
	return entry, found, nil
}

func (service *EntryService) Create(ctx context.Context, fields models.EntryFields, scope models.EntryScope) (models.Entry, error) {
	entry, err := service.entries.Insert(ctx, fields, scope)
	if err != nil {
		return models.Entry{}, fmt.Errorf("%w: %w", ErrEntryCreateFailed, err)
	}
	return entry, nil
}

// Update changes only the supplied fields; nil fields keep their stored value.
func (service *EntryService) Update(ctx context.Context, entryID uint, fields models.EntryFields, scope models.EntryScope) error {
	affected, err := service.entries.Update(ctx, entryID, fields, scope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEntryUpdateFailed, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (service *EntryService) Delete(ctx context.Context, entryID uint, scope models.EntryScope) error {
	affected, err := service.entries.Delete(ctx, entryID, scope)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEntryDeleteFailed, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// MoodTrend returns the mood points of the month ending today.
func (service *EntryService) MoodTrend(ctx context.Context, scope models.EntryScope, now time.Time) (MoodTrend, error) {
	since := DateAtLocation(now, service.location).AddDate(0, -1, 0)
	points, err := service.entries.ListMoodSince(ctx, scope, since)
	if err != nil {
		return MoodTrend{}, fmt.Errorf("%w: %w", ErrEntryListFailed, err)
	}

	trend := MoodTrend{
		Dates: make([]string, 0, len(points)),
		Moods: make([]string, 0, len(points)),
	}
	for _, point := range points {
		trend.Dates = append(trend.Dates, FormatDay(point.Date))
		mood := ""
		if point.Mood != nil {
			mood = *point.Mood
		}
		trend.Moods = append(trend.Moods, mood)
	}
	return trend, nil
}
