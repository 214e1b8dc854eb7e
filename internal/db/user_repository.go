package db

import (
	"context"

	"github.com/Leiracamera/clarityPMDD/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.WithContext(ctx).First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error) {
	return repo.findOne(ctx, "lower(trim(email)) = ?", email)
}

func (repo *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (models.User, bool, error) {
	return repo.findOne(ctx, "google_id = ?", googleID)
}

func (repo *UserRepository) findOne(ctx context.Context, condition string, value string) (models.User, bool, error) {
	user := models.User{}
	result := repo.database.WithContext(ctx).Where(condition, value).Order("user_id ASC").Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.User{}, false, nil
	}
	return user, true, nil
}

func (repo *UserRepository) ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error) {
	var matched int64
	if err := repo.database.WithContext(ctx).Model(&models.User{}).
		Where("lower(trim(email)) = ?", email).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return repo.database.WithContext(ctx).Create(user).Error
}

func (repo *UserRepository) LinkGoogleID(ctx context.Context, userID uint, googleID string) error {
	return repo.database.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", userID).Update("google_id", googleID).Error
}

func (repo *UserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return repo.database.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", userID).Update("password", passwordHash).Error
}
