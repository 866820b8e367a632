package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	beneficiaryrepo "github.com/setucred/setucred/internal/beneficiary/repository"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/scoring/domain"
	"github.com/setucred/setucred/internal/scoring/engine"
	"github.com/setucred/setucred/internal/scoring/explain"
	"github.com/setucred/setucred/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeExplainer struct {
	calls int
	last  domain.ExplainRequest
}

func (f *fakeExplainer) Explain(_ context.Context, req domain.ExplainRequest) domain.Explanation {
	f.calls++
	f.last = req
	return domain.Explanation{
		Explanation:     "test explanation",
		Recommendations: []string{"one", "two", "three"},
	}
}

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, *fakeExplainer) {
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

	explainer := &fakeExplainer{}
	svc := New(Params{
		DB:        conn,
		Log:       zap.NewNop(),
		Repo:      beneficiaryrepo.Provide(),
		Engine:    engine.New(holder),
		Explainer: explainer,
	})
	return svc, conn, node, explainer
}

func seedBeneficiary(t *testing.T, conn *gorm.DB, node *snowflake.Node) *beneficiarydomain.Beneficiary {
	t.Helper()

	b := &beneficiarydomain.Beneficiary{
		ID:               node.Generate(),
		Name:             "Priya Sharma",
		Age:              34,
		BusinessType:     "Handicrafts",
		LoanAmount:       50000,
		LoanTenureMonths: 24,
		RepaymentHistory: []beneficiarydomain.RepaymentRecord{
			{LoanID: "LOAN1001", AmountPaid: 12000, PaymentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Status: beneficiarydomain.RepaymentOnTime},
			{LoanID: "LOAN1002", AmountPaid: 15000, PaymentDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Status: beneficiarydomain.RepaymentOnTime},
		},
	}
	if err := conn.Create(b).Error; err != nil {
		t.Fatalf("failed to seed beneficiary: %v", err)
	}
	return b
}

func TestCalculatePersistsSnapshot(t *testing.T) {
	svc, conn, node, explainer := newTestService(t)
	b := seedBeneficiary(t, conn, node)

	result, err := svc.Calculate(context.Background(), domain.CalculateRequest{
		BeneficiaryID: b.ID.String(),
	})
	assert.NoError(t, err)

	// 40 repayment + 15 default consumption + 20 loan + 10 tenure
	assert.InDelta(t, 85.0, result.CreditScore, 1e-9)
	assert.Equal(t, domain.RiskLowLowNeed, result.RiskBand)
	assert.Equal(t, domain.IncomeNotAssessed, result.IncomeCategory)
	assert.Equal(t, "test explanation", result.Explanation)
	assert.Equal(t, 1, explainer.calls)
	assert.Equal(t, b.ID.String(), explainer.last.BeneficiaryID)

	var stored beneficiarydomain.Beneficiary
	assert.NoError(t, conn.First(&stored, "id = ?", b.ID).Error)
	if assert.NotNil(t, stored.CreditScore) {
		assert.InDelta(t, 85.0, *stored.CreditScore, 1e-9)
	}
	if assert.NotNil(t, stored.RiskBand) {
		assert.Equal(t, domain.RiskLowLowNeed, *stored.RiskBand)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	svc, conn, node, _ := newTestService(t)
	b := seedBeneficiary(t, conn, node)

	first, err := svc.Calculate(context.Background(), domain.CalculateRequest{BeneficiaryID: b.ID.String()})
	assert.NoError(t, err)
	second, err := svc.Calculate(context.Background(), domain.CalculateRequest{BeneficiaryID: b.ID.String()})
	assert.NoError(t, err)

	assert.Equal(t, first.CreditScore, second.CreditScore)
	assert.Equal(t, first.RiskBand, second.RiskBand)
}

func TestCalculateUnknownBeneficiary(t *testing.T) {
	svc, _, node, _ := newTestService(t)

	_, err := svc.Calculate(context.Background(), domain.CalculateRequest{
		BeneficiaryID: node.Generate().String(),
	})
	assert.ErrorIs(t, err, beneficiarydomain.ErrNotFound)
}

func TestCalculateInvalidID(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Calculate(context.Background(), domain.CalculateRequest{BeneficiaryID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestGetLatestBeforeScoring(t *testing.T) {
	svc, conn, node, _ := newTestService(t)
	b := seedBeneficiary(t, conn, node)

	_, err := svc.GetLatest(context.Background(), domain.GetLatestRequest{BeneficiaryID: b.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotScoredYet)
}

func TestGetLatestAfterScoring(t *testing.T) {
	svc, conn, node, _ := newTestService(t)
	b := seedBeneficiary(t, conn, node)

	calculated, err := svc.Calculate(context.Background(), domain.CalculateRequest{BeneficiaryID: b.ID.String()})
	assert.NoError(t, err)

	latest, err := svc.GetLatest(context.Background(), domain.GetLatestRequest{BeneficiaryID: b.ID.String()})
	assert.NoError(t, err)

	assert.Equal(t, calculated.CreditScore, latest.CreditScore)
	assert.Equal(t, calculated.RiskBand, latest.RiskBand)
	// Without a cache the narrative is rebuilt deterministically.
	assert.Equal(t, explain.FailureFallback().Explanation, latest.Explanation)
}
