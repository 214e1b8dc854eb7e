package db

import (
	"context"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"gorm.io/gorm"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

func (repo *EntryRepository) scoped(ctx context.Context, scope models.EntryScope) *gorm.DB {
	query := repo.database.WithContext(ctx).Model(&models.Entry{})
	if owner := scope.Owner(); owner != nil {
		query = query.Where("user_id = ?", *owner)
	}
	return query
}

func (repo *EntryRepository) List(ctx context.Context, scope models.EntryScope) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.scoped(ctx, scope).Order("date DESC, entry_id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) FindByID(ctx context.Context, scope models.EntryScope, entryID uint) (models.Entry, bool, error) {
	entry := models.Entry{}
	result := repo.scoped(ctx, scope).Where("entry_id = ?", entryID).Limit(1).Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

// FindByDate returns the first entry recorded on the day starting at dayStart.
func (repo *EntryRepository) FindByDate(ctx context.Context, scope models.EntryScope, dayStart time.Time) (models.Entry, bool, error) {
	dayEnd := dayStart.AddDate(0, 0, 1)

	entry := models.Entry{}
	result := repo.scoped(ctx, scope).
		Where("date >= ? AND date < ?", dayStart, dayEnd).
		Order("entry_id ASC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

func (repo *EntryRepository) ListMoodSince(ctx context.Context, scope models.EntryScope, since time.Time) ([]models.MoodPoint, error) {
	points := make([]models.MoodPoint, 0)
	if err := repo.scoped(ctx, scope).
		Select("date", "mood").
		Where("date >= ?", since).
		Order("date ASC, entry_id ASC").
		Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func (repo *EntryRepository) Insert(ctx context.Context, fields models.EntryFields, scope models.EntryScope) (models.Entry, error) {
	entry := models.Entry{
		UserID:       scope.Owner(),
		Date:         fields.Date,
		Mood:         fields.Mood,
		Symptoms:     fields.Symptoms,
		EnergyLevel:  fields.EnergyLevel,
		SleepQuality: fields.SleepQuality,
		Notes:        fields.Notes,
	}
	if err := repo.database.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// Update applies the supplied fields in one statement; nil fields keep their
// stored value through COALESCE. Rows outside the scope are not matched.
func (repo *EntryRepository) Update(ctx context.Context, entryID uint, fields models.EntryFields, scope models.EntryScope) (int64, error) {
	result := repo.scoped(ctx, scope).
		Where("entry_id = ?", entryID).
		UpdateColumns(map[string]any{
			"date":          gorm.Expr("COALESCE(?, date)", fields.Date),
			"mood":          gorm.Expr("COALESCE(?, mood)", fields.Mood),
			"symptoms":      gorm.Expr("COALESCE(?, symptoms)", fields.Symptoms),
			"energy_level":  gorm.Expr("COALESCE(?, energy_level)", fields.EnergyLevel),
			"sleep_quality": gorm.Expr("COALESCE(?, sleep_quality)", fields.SleepQuality),
			"notes":         gorm.Expr("COALESCE(?, notes)", fields.Notes),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (repo *EntryRepository) Delete(ctx context.Context, entryID uint, scope models.EntryScope) (int64, error) {
	query := repo.database.WithContext(ctx).Where("entry_id = ?", entryID)
	if owner := scope.Owner(); owner != nil {
		query = query.Where("user_id = ?", *owner)
	}
	result := query.Delete(&models.Entry{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
