package domain

import (
	"context"
	"errors"
)

type ApplyRequest struct {
	BeneficiaryID string  `json:"beneficiary_id"`
	Amount        float64 `json:"amount"`
	TenureMonths  int     `json:"tenure_months"`
	Purpose       string  `json:"purpose"`
}

type ListRequest struct {
	BeneficiaryID string
	Limit         int
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidTenure      = errors.New("invalid_tenure_months")
	ErrScoreNotCalculated = errors.New("score_not_calculated")
)

type Service interface {
	// Apply decides an application immediately from the beneficiary's
	// persisted credit score. Beneficiaries without a score are rejected
	// with ErrScoreNotCalculated rather than decided.
	Apply(ctx context.Context, req ApplyRequest) (*LoanApplication, error)
	List(ctx context.Context, req ListRequest) ([]LoanApplication, error)
}
