package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	beneficiaryrepo "github.com/setucred/setucred/internal/beneficiary/repository"
	"github.com/setucred/setucred/internal/clock"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/loan/domain"
	loanrepo "github.com/setucred/setucred/internal/loan/repository"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
	"github.com/setucred/setucred/internal/scoring/engine"
	"github.com/setucred/setucred/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = conn.AutoMigrate(&beneficiarydomain.Beneficiary{}, &domain.LoanApplication{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	holder := &config.ScoringConfigHolder{}
	holder.Store(config.DefaultScoringConfig())

	svc := New(Params{
		DB:              conn,
		Log:             zap.NewNop(),
		GenID:           node,
		Repo:            loanrepo.Provide(),
		BeneficiaryRepo: beneficiaryrepo.Provide(),
		Engine:          engine.New(holder),
		Clock:           clock.NewFakeClock(testNow),
	})
	return svc, conn, node
}

func seedScored(t *testing.T, conn *gorm.DB, node *snowflake.Node, score float64) *beneficiarydomain.Beneficiary {
	t.Helper()

	band := scoringdomain.RiskMediumLowNeed
	category := scoringdomain.IncomeNotAssessed
	b := &beneficiarydomain.Beneficiary{
		ID:               node.Generate(),
		Name:             "Amit Patel",
		Age:              41,
		BusinessType:     "Agriculture",
		LoanAmount:       60000,
		LoanTenureMonths: 24,
		CreditScore:      &score,
		RiskBand:         &band,
		IncomeCategory:   &category,
	}
	if err := conn.Create(b).Error; err != nil {
		t.Fatalf("failed to seed beneficiary: %v", err)
	}
	return b
}

func TestApplyApprovedAtThreshold(t *testing.T) {
	svc, conn, node := newTestService(t)
	b := seedScored(t, conn, node, 60)

	app, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        40000,
		TenureMonths:  24,
		Purpose:       "inventory",
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, app.Status)
	assert.InDelta(t, 60.0, app.ScoreAtDecision, 1e-9)
	if assert.NotNil(t, app.ProcessedAt) {
		assert.Equal(t, testNow, app.ProcessedAt.UTC())
	}
}

func TestApplyRejectedBelowThreshold(t *testing.T) {
	svc, conn, node := newTestService(t)
	b := seedScored(t, conn, node, 59.999)

	app, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        40000,
		TenureMonths:  24,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, app.Status)
	assert.NotNil(t, app.ProcessedAt)
}

func TestApplyWithoutScore(t *testing.T) {
	svc, conn, node := newTestService(t)

	b := &beneficiarydomain.Beneficiary{
		ID:               node.Generate(),
		Name:             "Sunita Devi",
		Age:              29,
		BusinessType:     "Food Business",
		LoanAmount:       30000,
		LoanTenureMonths: 12,
	}
	assert.NoError(t, conn.Create(b).Error)

	_, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        20000,
		TenureMonths:  12,
	})
	assert.ErrorIs(t, err, domain.ErrScoreNotCalculated)
}

func TestApplyUnknownBeneficiary(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: node.Generate().String(),
		Amount:        20000,
		TenureMonths:  12,
	})
	assert.ErrorIs(t, err, beneficiarydomain.ErrNotFound)
}

func TestApplyValidation(t *testing.T) {
	svc, conn, node := newTestService(t)
	b := seedScored(t, conn, node, 70)

	_, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        0,
		TenureMonths:  12,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        20000,
		TenureMonths:  0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTenure)
}

func TestDecisionIsFrozenAgainstRescore(t *testing.T) {
	svc, conn, node := newTestService(t)
	b := seedScored(t, conn, node, 80)

	app, err := svc.Apply(context.Background(), domain.ApplyRequest{
		BeneficiaryID: b.ID.String(),
		Amount:        25000,
		TenureMonths:  24,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, app.Status)

	// Later re-score drops below the bar; the stored decision keeps the
	// score it was made with.
	assert.NoError(t, conn.Model(&beneficiarydomain.Beneficiary{}).
		Where("id = ?", b.ID).
		Update("credit_score", 40.0).Error)

	listed, err := svc.List(context.Background(), domain.ListRequest{BeneficiaryID: b.ID.String()})
	assert.NoError(t, err)
	if assert.Len(t, listed, 1) {
		assert.InDelta(t, 80.0, listed[0].ScoreAtDecision, 1e-9)
		assert.Equal(t, domain.StatusApproved, listed[0].Status)
	}
}

func TestListFiltersByBeneficiary(t *testing.T) {
	svc, conn, node := newTestService(t)
	first := seedScored(t, conn, node, 70)
	second := seedScored(t, conn, node, 70)

	_, err := svc.Apply(context.Background(), domain.ApplyRequest{BeneficiaryID: first.ID.String(), Amount: 10000, TenureMonths: 12})
	assert.NoError(t, err)
	_, err = svc.Apply(context.Background(), domain.ApplyRequest{BeneficiaryID: second.ID.String(), Amount: 15000, TenureMonths: 24})
	assert.NoError(t, err)

	all, err := svc.List(context.Background(), domain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.List(context.Background(), domain.ListRequest{BeneficiaryID: first.ID.String()})
	assert.NoError(t, err)
	if assert.Len(t, filtered, 1) {
		assert.Equal(t, first.ID, filtered[0].BeneficiaryID)
	}
}
