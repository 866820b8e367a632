package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	BeneficiaryID *snowflake.ID
	Limit         int
}

type Repository interface {
	Insert(ctx context.Context, tx *gorm.DB, application *LoanApplication) error
	List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]LoanApplication, error)
	CountByStatus(ctx context.Context, tx *gorm.DB) (map[Status]int64, error)
}
