package domain

// RiskBand is one of the six labels combining a credit-risk tier with a
// social-need tier. "High Need" marks a lower-income proxy, not higher credit
// risk; the conflation is a product policy choice carried over from the NBCFDC
// lending program and the literal strings are part of the stored data contract.
type RiskBand string

const (
	RiskLowHighNeed    RiskBand = "Low Risk - High Need"
	RiskLowLowNeed     RiskBand = "Low Risk - Low Need"
	RiskMediumHighNeed RiskBand = "Medium Risk - High Need"
	RiskMediumLowNeed  RiskBand = "Medium Risk - Low Need"
	RiskHighHighNeed   RiskBand = "High Risk - High Need"
	RiskHighLowNeed    RiskBand = "High Risk - Low Need"
)

// IncomeCategory is the coarse income-proxy bucket derived from consumption.
type IncomeCategory string

const (
	IncomeMedium      IncomeCategory = "Medium Income"
	IncomeLowMedium   IncomeCategory = "Low-Medium Income"
	IncomeLow         IncomeCategory = "Low Income"
	IncomeNotAssessed IncomeCategory = "Income Not Assessed"
)

// HighNeed reports whether the category maps onto the high-need leg of the
// risk band lattice.
func (c IncomeCategory) HighNeed() bool {
	return c == IncomeLow || c == IncomeLowMedium
}

// CreditScoreResult is the scoring output returned to callers. The score,
// band and category are authoritative; explanation and recommendations are
// advisory and may come from the deterministic fallback.
type CreditScoreResult struct {
	CreditScore     float64        `json:"credit_score"`
	RiskBand        RiskBand       `json:"risk_band"`
	IncomeCategory  IncomeCategory `json:"income_category"`
	Explanation     string         `json:"explanation"`
	Recommendations []string       `json:"recommendations"`
}
