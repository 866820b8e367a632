package domain

import "context"

// ExplainRequest carries the beneficiary fields shared with the language-model
// collaborator alongside the already computed score and band.
type ExplainRequest struct {
	BeneficiaryID  string
	Name           string
	BusinessType   string
	LoanAmount     float64
	RepaymentCount int
	CreditScore    float64
	RiskBand       RiskBand
}

// Explanation is the narrative half of a scoring result.
type Explanation struct {
	Explanation     string
	Recommendations []string
}

// Explainer produces a narrative rationale for a computed score. It must
// never return an error for external failures: implementations degrade to a
// deterministic fallback so explanation generation cannot abort scoring.
type Explainer interface {
	Explain(context.Context, ExplainRequest) Explanation
}
