package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"gorm.io/gorm"
)

const msgEmailTaken = "Email already registered"

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		DB: db,
	}
}

// Create inserts a user. A taken email is reported as a conflict whether it
// is caught by the lookup or by the unique index on a concurrent insert.
func (s *UserService) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("users: lookup %s: %w", email, err)
	}
	if count > 0 {
		return nil, apperror.Conflict(msgEmailTaken)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, fmt.Errorf("users: create: %w", err)
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("users: find %s: %w", email, err)
	}
	return &user, nil
}
