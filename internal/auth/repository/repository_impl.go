package repository

import (
	"context"
	"errors"

	"github.com/setucred/setucred/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, user *domain.User) error {
	return tx.WithContext(ctx).Create(user).Error
}

func (r *repo) FindByUsername(ctx context.Context, tx *gorm.DB, username string) (*domain.User, error) {
	var user domain.User
	err := tx.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
