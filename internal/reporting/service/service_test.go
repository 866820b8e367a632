package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
	loanrepo "github.com/setucred/setucred/internal/loan/repository"
	"github.com/setucred/setucred/internal/reporting/domain"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
	"github.com/setucred/setucred/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = conn.AutoMigrate(&beneficiarydomain.Beneficiary{}, &loandomain.LoanApplication{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := New(Params{DB: conn, Log: zap.NewNop(), LoanRepo: loanrepo.Provide()})
	return svc, conn, node
}

func seedBeneficiary(t *testing.T, conn *gorm.DB, node *snowflake.Node, band *scoringdomain.RiskBand) {
	t.Helper()

	b := &beneficiarydomain.Beneficiary{
		ID:               node.Generate(),
		Name:             "Kavita Sharma",
		Age:              34,
		BusinessType:     "Food Business",
		LoanAmount:       30000,
		LoanTenureMonths: 12,
		RiskBand:         band,
	}
	if band != nil {
		score := 70.0
		b.CreditScore = &score
	}
	if err := conn.Create(b).Error; err != nil {
		t.Fatalf("failed to seed beneficiary: %v", err)
	}
}

func seedLoan(t *testing.T, conn *gorm.DB, node *snowflake.Node, status loandomain.Status) {
	t.Helper()

	app := &loandomain.LoanApplication{
		ID:              node.Generate(),
		BeneficiaryID:   node.Generate(),
		BeneficiaryName: "Kavita Sharma",
		Amount:          20000,
		TenureMonths:    12,
		Status:          status,
		ScoreAtDecision: 70,
	}
	if err := conn.Create(app).Error; err != nil {
		t.Fatalf("failed to seed loan application: %v", err)
	}
}

func TestStatsEmptyDatabase(t *testing.T) {
	svc, _, _ := newTestService(t)

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, stats.TotalBeneficiaries)
	assert.Zero(t, stats.TotalApplications)
	assert.Zero(t, stats.ApprovedLoans)
	assert.Zero(t, stats.ApprovalRate)
	assert.Empty(t, stats.RiskDistribution)
}

func TestStatsAggregates(t *testing.T) {
	svc, conn, node := newTestService(t)

	low := scoringdomain.RiskLowLowNeed
	medium := scoringdomain.RiskMediumLowNeed
	seedBeneficiary(t, conn, node, &low)
	seedBeneficiary(t, conn, node, &low)
	seedBeneficiary(t, conn, node, &medium)
	seedBeneficiary(t, conn, node, nil)

	seedLoan(t, conn, node, loandomain.StatusApproved)
	seedLoan(t, conn, node, loandomain.StatusApproved)
	seedLoan(t, conn, node, loandomain.StatusApproved)
	seedLoan(t, conn, node, loandomain.StatusRejected)

	stats, err := svc.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalBeneficiaries)
	assert.Equal(t, int64(4), stats.TotalApplications)
	assert.Equal(t, int64(3), stats.ApprovedLoans)
	assert.InDelta(t, 75.0, stats.ApprovalRate, 1e-9)

	// Unscored beneficiaries are outside the distribution.
	assert.Equal(t, map[string]int64{
		string(low):    2,
		string(medium): 1,
	}, stats.RiskDistribution)
}
