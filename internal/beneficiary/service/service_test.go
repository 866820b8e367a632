package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/beneficiary/repository"
	"github.com/setucred/setucred/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Beneficiary{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func ptr(v float64) *float64 { return &v }

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBeneficiaryRequest{
		Name:             "  Lakshmi Reddy ",
		Age:              38,
		BusinessType:     "Handicrafts",
		LoanAmount:       75000,
		LoanTenureMonths: 36,
		RepaymentHistory: []domain.RepaymentRecord{
			{LoanID: "L-1", AmountPaid: 5000, Status: domain.RepaymentOnTime},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Lakshmi Reddy", created.Name)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.CreditScore)

	found, err := svc.GetByID(ctx, domain.GetBeneficiaryRequest{ID: created.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	if assert.Len(t, found.RepaymentHistory, 1) {
		assert.Equal(t, domain.RepaymentOnTime, found.RepaymentHistory[0].Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	valid := domain.CreateBeneficiaryRequest{
		Name:             "Ravi Kumar",
		Age:              45,
		BusinessType:     "Tailoring",
		LoanAmount:       50000,
		LoanTenureMonths: 24,
	}

	cases := []struct {
		name    string
		mutate  func(*domain.CreateBeneficiaryRequest)
		wantErr error
	}{
		{"blank name", func(r *domain.CreateBeneficiaryRequest) { r.Name = "   " }, domain.ErrInvalidName},
		{"zero age", func(r *domain.CreateBeneficiaryRequest) { r.Age = 0 }, domain.ErrInvalidAge},
		{"negative amount", func(r *domain.CreateBeneficiaryRequest) { r.LoanAmount = -1 }, domain.ErrInvalidLoanAmount},
		{"zero tenure", func(r *domain.CreateBeneficiaryRequest) { r.LoanTenureMonths = 0 }, domain.ErrInvalidTenure},
		{"unknown repayment status", func(r *domain.CreateBeneficiaryRequest) {
			r.RepaymentHistory = []domain.RepaymentRecord{{LoanID: "L-1", Status: "late"}}
		}, domain.ErrInvalidRepayment},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestGetByIDErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, domain.GetBeneficiaryRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	node, err := snowflake.NewNode(2)
	assert.NoError(t, err)
	_, err = svc.GetByID(ctx, domain.GetBeneficiaryRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListRespectsLimit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateBeneficiaryRequest{
			Name:             "Meena Kumari",
			Age:              30 + i,
			BusinessType:     "Dairy Farming",
			LoanAmount:       20000,
			LoanTenureMonths: 12,
		})
		assert.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListBeneficiaryRequest{})
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := svc.List(ctx, domain.ListBeneficiaryRequest{Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdateConsumptionPersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateBeneficiaryRequest{
		Name:             "Arjun Singh",
		Age:              52,
		BusinessType:     "Retail Shop",
		LoanAmount:       90000,
		LoanTenureMonths: 48,
	})
	assert.NoError(t, err)
	assert.Nil(t, created.ConsumptionData)

	err = svc.UpdateConsumption(ctx, domain.UpdateConsumptionRequest{
		ID: created.ID.String(),
		Data: domain.ConsumptionData{
			ElectricityKWH:        ptr(230),
			MobileRechargeMonthly: ptr(300),
		},
	})
	assert.NoError(t, err)

	found, err := svc.GetByID(ctx, domain.GetBeneficiaryRequest{ID: created.ID.String()})
	assert.NoError(t, err)
	if assert.NotNil(t, found.ConsumptionData) {
		if assert.NotNil(t, found.ConsumptionData.ElectricityKWH) {
			assert.InDelta(t, 230, *found.ConsumptionData.ElectricityKWH, 1e-9)
		}
		if assert.NotNil(t, found.ConsumptionData.MobileRechargeMonthly) {
			assert.InDelta(t, 300, *found.ConsumptionData.MobileRechargeMonthly, 1e-9)
		}
		assert.Nil(t, found.ConsumptionData.UtilityBillAvg)
	}
}

func TestUpdateConsumptionUnknownBeneficiary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	node, err := snowflake.NewNode(3)
	assert.NoError(t, err)

	err = svc.UpdateConsumption(ctx, domain.UpdateConsumptionRequest{
		ID:   node.Generate().String(),
		Data: domain.ConsumptionData{ElectricityKWH: ptr(100)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
