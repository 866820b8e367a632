package engine

import (
	"math"

	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/scoring/domain"
)

// Engine computes composite credit scores and classifies them. All methods
// are pure and safe for concurrent use; every invocation reads the scoring
// parameters once so a config reload cannot split a single calculation.
type Engine struct {
	holder *config.ScoringConfigHolder
}

func New(holder *config.ScoringConfigHolder) *Engine {
	return &Engine{holder: holder}
}

// Score returns the composite 0-100 creditworthiness score. Each weighted
// component is individually capped at its weight, so the sum is bounded by
// construction.
func (e *Engine) Score(b *beneficiarydomain.Beneficiary) float64 {
	cfg := e.holder.Current()
	return repaymentComponent(cfg, b.RepaymentHistory) +
		consumptionComponent(cfg, b.ConsumptionData) +
		utilizationComponent(cfg, b.LoanAmount) +
		tenureComponent(cfg, b.LoanTenureMonths)
}

// Classify derives the income category and risk band for a computed score.
func (e *Engine) Classify(b *beneficiarydomain.Beneficiary, score float64) (domain.RiskBand, domain.IncomeCategory) {
	cfg := e.holder.Current()
	category := incomeCategory(cfg, b.ConsumptionData)
	return riskBand(cfg, score, category), category
}

// Approvable reports whether a persisted score clears the auto-approval bar.
func (e *Engine) Approvable(score float64) bool {
	return score >= e.holder.Current().ApprovalThreshold
}

func repaymentComponent(cfg config.ScoringConfig, history []beneficiarydomain.RepaymentRecord) float64 {
	if len(history) == 0 {
		// Moderate default for borrowers with no history; rewards neither
		// good nor bad behavior.
		return cfg.RepaymentDefault
	}
	onTime := 0
	for _, record := range history {
		if record.Status == beneficiarydomain.RepaymentOnTime {
			onTime++
		}
	}
	return float64(onTime) / float64(len(history)) * cfg.RepaymentWeight
}

func consumptionComponent(cfg config.ScoringConfig, data *beneficiarydomain.ConsumptionData) float64 {
	if data == nil {
		return cfg.ConsumptionDefault
	}

	total := 0.0
	total += subScore(data.ElectricityKWH, cfg.ElectricityRef, cfg.ConsumptionSubWeight)
	total += subScore(data.MobileRechargeMonthly, cfg.MobileRef, cfg.ConsumptionSubWeight)
	total += subScore(data.UtilityBillAvg, cfg.UtilityRef, cfg.ConsumptionSubWeight)
	return total
}

// subScore normalizes a single reading against its reference value. Higher
// consumption, up to the reference, proxies higher income. Absent or zero
// readings contribute nothing.
func subScore(reading *float64, reference, weight float64) float64 {
	if reading == nil || *reading <= 0 {
		return 0
	}
	return math.Min(*reading/reference*weight, weight)
}

func utilizationComponent(cfg config.ScoringConfig, loanAmount float64) float64 {
	switch {
	case loanAmount >= cfg.OptimalLoanMin && loanAmount <= cfg.OptimalLoanMax:
		return cfg.UtilizationOptimal
	case loanAmount < cfg.OptimalLoanMin:
		return cfg.UtilizationSmall
	default:
		return cfg.UtilizationLarge
	}
}

func tenureComponent(cfg config.ScoringConfig, tenureMonths int) float64 {
	if tenureMonths >= cfg.OptimalTenureMin && tenureMonths <= cfg.OptimalTenureMax {
		return cfg.TenureOptimal
	}
	return cfg.TenureOffRange
}

func incomeCategory(cfg config.ScoringConfig, data *beneficiarydomain.ConsumptionData) domain.IncomeCategory {
	if !data.HasAnyReading() {
		return domain.IncomeNotAssessed
	}

	// Only metered consumption counts toward the income proxy; utility
	// bills are excluded from the total.
	total := 0.0
	if data.ElectricityKWH != nil {
		total += *data.ElectricityKWH
	}
	if data.MobileRechargeMonthly != nil {
		total += *data.MobileRechargeMonthly
	}

	switch {
	case total > cfg.MediumIncomeThreshold:
		return domain.IncomeMedium
	case total > cfg.LowMediumIncomeThreshold:
		return domain.IncomeLowMedium
	default:
		return domain.IncomeLow
	}
}

func riskBand(cfg config.ScoringConfig, score float64, category domain.IncomeCategory) domain.RiskBand {
	highNeed := category.HighNeed()
	switch {
	case score >= cfg.LowRiskThreshold:
		if highNeed {
			return domain.RiskLowHighNeed
		}
		return domain.RiskLowLowNeed
	case score >= cfg.MediumRiskThreshold:
		if highNeed {
			return domain.RiskMediumHighNeed
		}
		return domain.RiskMediumLowNeed
	default:
		if highNeed {
			return domain.RiskHighHighNeed
		}
		return domain.RiskHighLowNeed
	}
}
