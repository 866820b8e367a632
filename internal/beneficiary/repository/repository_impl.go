package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/setucred/setucred/internal/beneficiary/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, beneficiary *domain.Beneficiary) error {
	return db.WithContext(ctx).Create(beneficiary).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Beneficiary, error) {
	var beneficiary domain.Beneficiary
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&beneficiary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &beneficiary, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Beneficiary, error) {
	var beneficiaries []*domain.Beneficiary
	err := db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&beneficiaries).Error
	if err != nil {
		return nil, err
	}
	return beneficiaries, nil
}

// UpdateScore persists one scoring run. Plain last-write-wins update of the
// three score columns; a concurrent run simply overwrites.
func (r *repo) UpdateScore(ctx context.Context, db *gorm.DB, id snowflake.ID, snapshot domain.ScoreSnapshot) error {
	return db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"credit_score":    snapshot.CreditScore,
			"risk_band":       snapshot.RiskBand,
			"income_category": snapshot.IncomeCategory,
			"updated_at":      time.Now().UTC(),
		}).Error
}

func (r *repo) UpdateConsumption(ctx context.Context, db *gorm.DB, id snowflake.ID, data *domain.ConsumptionData) error {
	// Struct-based update so the JSON serializer on consumption_data applies.
	return db.WithContext(ctx).
		Model(&domain.Beneficiary{}).
		Where("id = ?", id).
		Select("consumption_data", "updated_at").
		Updates(domain.Beneficiary{
			ConsumptionData: data,
			UpdatedAt:       time.Now().UTC(),
		}).Error
}
