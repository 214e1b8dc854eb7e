package models

import "time"

// Entry is one journal record. Every column except the key is nullable so
// absent form fields reach the table as NULL.
type Entry struct {
	ID           uint       `gorm:"column:entry_id;primaryKey" json:"entry_id"`
	UserID       *uint      `gorm:"column:user_id;index" json:"user_id,omitempty"`
	Date         *time.Time `gorm:"column:date;type:date" json:"date"`
	Mood         *string    `gorm:"column:mood" json:"mood"`
	Symptoms     *string    `gorm:"column:symptoms" json:"symptoms"`
	EnergyLevel  *string    `gorm:"column:energy_level" json:"energy_level"`
	SleepQuality *string    `gorm:"column:sleep_quality" json:"sleep_quality"`
	Notes        *string    `gorm:"column:notes" json:"notes"`
}

func (Entry) TableName() string {
	return "daily_entries"
}

// EntryFields carries the six mutable columns. A nil field means "not supplied".
type EntryFields struct {
	Date         *time.Time
	Mood         *string
	Symptoms     *string
	EnergyLevel  *string
	SleepQuality *string
	Notes        *string
}

type MoodPoint struct {
	Date time.Time `gorm:"column:date"`
	Mood *string   `gorm:"column:mood"`
}
