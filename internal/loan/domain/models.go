package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// LoanApplication is a decision record tied to the score that produced it.
// ScoreAtDecision freezes the input: re-scoring the beneficiary later does
// not alter past applications.
type LoanApplication struct {
	ID              snowflake.ID `json:"id,string" gorm:"primaryKey"`
	BeneficiaryID   snowflake.ID `json:"beneficiary_id,string" gorm:"index"`
	BeneficiaryName string       `json:"beneficiary_name"`
	Amount          float64      `json:"amount"`
	TenureMonths    int          `json:"tenure_months"`
	Purpose         string       `json:"purpose"`
	Status          Status       `json:"status"`
	ScoreAtDecision float64      `json:"score_at_decision"`
	CreatedAt       time.Time    `json:"created_at"`
	ProcessedAt     *time.Time   `json:"processed_at,omitempty"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}
