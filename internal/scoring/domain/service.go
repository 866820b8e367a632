package domain

import (
	"context"
	"errors"
)

// CalculateRequest identifies the beneficiary to score.
type CalculateRequest struct {
	BeneficiaryID string
}

// GetLatestRequest identifies the beneficiary whose last result is wanted.
type GetLatestRequest struct {
	BeneficiaryID string
}

// Service orchestrates scoring: compute, classify, explain, persist.
type Service interface {
	Calculate(context.Context, CalculateRequest) (CreditScoreResult, error)
	GetLatest(context.Context, GetLatestRequest) (CreditScoreResult, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotScoredYet = errors.New("not_scored_yet")
)
