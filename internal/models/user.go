package models

import "time"

type User struct {
	ID           uint      `gorm:"column:user_id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash *string   `gorm:"column:password"`
	GoogleID     *string   `gorm:"column:google_id;uniqueIndex"`
	Username     string    `gorm:"column:username;not null;default:''"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

func (User) TableName() string {
	return "users"
}

func (user *User) HasPassword() bool {
	return user != nil && user.PasswordHash != nil && *user.PasswordHash != ""
}

func (user *User) DisplayName() string {
	if user == nil {
		return ""
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}
