package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, beneficiary *Beneficiary) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Beneficiary, error)
	List(ctx context.Context, db *gorm.DB, limit int) ([]*Beneficiary, error)
	UpdateScore(ctx context.Context, db *gorm.DB, id snowflake.ID, snapshot ScoreSnapshot) error
	UpdateConsumption(ctx context.Context, db *gorm.DB, id snowflake.ID, data *ConsumptionData) error
}
