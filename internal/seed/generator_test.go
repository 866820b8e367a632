package seed

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	beneficiaryrepo "github.com/setucred/setucred/internal/beneficiary/repository"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/scoring/engine"
	"github.com/setucred/setucred/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestGenerator(t *testing.T) (*Generator, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&beneficiarydomain.Beneficiary{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	holder := &config.ScoringConfigHolder{}
	holder.Store(config.DefaultScoringConfig())

	gen := NewGenerator(GeneratorParams{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   beneficiaryrepo.Provide(),
		Engine: engine.New(holder),
	})
	return gen, conn
}

func TestGenerateInsertsPreScoredBeneficiaries(t *testing.T) {
	gen, conn := newTestGenerator(t)

	ids, err := gen.Generate(context.Background(), 25)
	assert.NoError(t, err)
	assert.Len(t, ids, 25)

	var total int64
	assert.NoError(t, conn.Model(&beneficiarydomain.Beneficiary{}).Count(&total).Error)
	assert.Equal(t, int64(25), total)

	var items []beneficiarydomain.Beneficiary
	assert.NoError(t, conn.Find(&items).Error)

	for _, b := range items {
		assert.Contains(t, mockNames, b.Name)
		assert.Contains(t, mockBusinessTypes, b.BusinessType)
		assert.Contains(t, mockTenures, b.LoanTenureMonths)
		assert.GreaterOrEqual(t, b.Age, 25)
		assert.LessOrEqual(t, b.Age, 60)
		assert.GreaterOrEqual(t, b.LoanAmount, 10000.0)
		assert.LessOrEqual(t, b.LoanAmount, 200000.0)

		assert.GreaterOrEqual(t, len(b.RepaymentHistory), 1)
		assert.LessOrEqual(t, len(b.RepaymentHistory), 5)
		for _, record := range b.RepaymentHistory {
			assert.True(t, record.Status.Valid())
			assert.NotEmpty(t, record.LoanID)
		}

		if assert.NotNil(t, b.ConsumptionData) {
			assert.NotNil(t, b.ConsumptionData.ElectricityKWH)
			assert.NotNil(t, b.ConsumptionData.MobileRechargeMonthly)
			assert.NotNil(t, b.ConsumptionData.UtilityBillAvg)
		}

		if assert.True(t, b.Scored()) {
			assert.GreaterOrEqual(t, *b.CreditScore, 0.0)
			assert.LessOrEqual(t, *b.CreditScore, 100.0)
		}
		assert.NotNil(t, b.RiskBand)
		assert.NotNil(t, b.IncomeCategory)
	}
}

func TestGenerateZeroCount(t *testing.T) {
	gen, conn := newTestGenerator(t)

	ids, err := gen.Generate(context.Background(), 0)
	assert.NoError(t, err)
	assert.Empty(t, ids)

	var total int64
	assert.NoError(t, conn.Model(&beneficiarydomain.Beneficiary{}).Count(&total).Error)
	assert.Zero(t, total)
}
