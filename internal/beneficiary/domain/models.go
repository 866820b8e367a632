package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
	"gorm.io/datatypes"
)

// RepaymentStatus classifies a single repayment record.
type RepaymentStatus string

const (
	RepaymentOnTime  RepaymentStatus = "on_time"
	RepaymentDelayed RepaymentStatus = "delayed"
	RepaymentMissed  RepaymentStatus = "missed"
)

// Valid reports whether the status is one of the three known values.
func (s RepaymentStatus) Valid() bool {
	switch s {
	case RepaymentOnTime, RepaymentDelayed, RepaymentMissed:
		return true
	default:
		return false
	}
}

// RepaymentRecord is one entry of a beneficiary's repayment history.
// The list is append-only; scoring treats it as an unordered multiset.
type RepaymentRecord struct {
	LoanID      string          `json:"loan_id"`
	AmountPaid  float64         `json:"amount_paid"`
	PaymentDate time.Time       `json:"payment_date"`
	Status      RepaymentStatus `json:"status"`
}

// ConsumptionData carries the utility and mobile income proxies. Every
// reading is optional; a nil pointer means the reading was never provided,
// which scoring treats differently from an explicit zero.
type ConsumptionData struct {
	ElectricityKWH        *float64 `json:"electricity_kwh,omitempty"`
	MobileRechargeMonthly *float64 `json:"mobile_recharge_monthly,omitempty"`
	UtilityBillAvg        *float64 `json:"utility_bill_avg,omitempty"`
}

// HasAnyReading reports whether at least one reading is present and non-zero.
func (c *ConsumptionData) HasAnyReading() bool {
	if c == nil {
		return false
	}
	for _, v := range []*float64{c.ElectricityKWH, c.MobileRechargeMonthly, c.UtilityBillAvg} {
		if v != nil && *v != 0 {
			return true
		}
	}
	return false
}

// Beneficiary is the borrower entity being scored. The three score fields are
// nil until the first scoring run and are overwritten by every later run.
type Beneficiary struct {
	ID               snowflake.ID                  `gorm:"primaryKey" json:"id"`
	Name             string                        `gorm:"not null" json:"name"`
	Age              int                           `gorm:"not null" json:"age"`
	BusinessType     string                        `gorm:"not null" json:"business_type"`
	LoanAmount       float64                       `gorm:"not null" json:"loan_amount"`
	LoanTenureMonths int                           `gorm:"not null" json:"loan_tenure_months"`
	RepaymentHistory []RepaymentRecord             `gorm:"serializer:json" json:"repayment_history"`
	ConsumptionData  *ConsumptionData              `gorm:"serializer:json" json:"consumption_data,omitempty"`
	CreditScore      *float64                      `json:"credit_score,omitempty"`
	RiskBand         *scoringdomain.RiskBand       `json:"risk_band,omitempty"`
	IncomeCategory   *scoringdomain.IncomeCategory `json:"income_category,omitempty"`
	Metadata         datatypes.JSONMap             `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Scored reports whether a scoring run has been persisted for the beneficiary.
func (b *Beneficiary) Scored() bool {
	return b != nil && b.CreditScore != nil
}

// ScoreSnapshot is the persisted outcome of one scoring run.
type ScoreSnapshot struct {
	CreditScore    float64
	RiskBand       scoringdomain.RiskBand
	IncomeCategory scoringdomain.IncomeCategory
}
