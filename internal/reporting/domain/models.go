package domain

import "context"

// Stats is the portfolio summary served to officer dashboards.
// ApprovalRate is a percentage; zero when no applications exist.
type Stats struct {
	TotalBeneficiaries int64            `json:"total_beneficiaries"`
	TotalApplications  int64            `json:"total_applications"`
	ApprovedLoans      int64            `json:"approved_loans"`
	ApprovalRate       float64          `json:"approval_rate"`
	RiskDistribution   map[string]int64 `json:"risk_distribution"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}
