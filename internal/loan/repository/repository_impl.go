package repository

import (
	"context"

	"github.com/setucred/setucred/internal/loan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, tx *gorm.DB, application *domain.LoanApplication) error {
	return tx.WithContext(ctx).Create(application).Error
}

func (r *repo) List(ctx context.Context, tx *gorm.DB, filter domain.ListFilter) ([]domain.LoanApplication, error) {
	query := tx.WithContext(ctx).Model(&domain.LoanApplication{})
	if filter.BeneficiaryID != nil {
		query = query.Where("beneficiary_id = ?", *filter.BeneficiaryID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var applications []domain.LoanApplication
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repo) CountByStatus(ctx context.Context, tx *gorm.DB) (map[domain.Status]int64, error) {
	type row struct {
		Status domain.Status
		Total  int64
	}

	var rows []row
	err := tx.WithContext(ctx).
		Model(&domain.LoanApplication{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
