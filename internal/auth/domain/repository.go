package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, user *User) error
	FindByUsername(ctx context.Context, tx *gorm.DB, username string) (*User, error)
}
