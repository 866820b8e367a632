package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/scoring/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	mockNames = []string{
		"Rajesh Kumar", "Priya Sharma", "Amit Patel", "Sunita Devi",
		"Vikram Singh", "Lakshmi Iyer", "Ramesh Reddy", "Anjali Gupta",
		"Suresh Yadav", "Kavita Verma", "Mohan Das", "Meera Nair",
	}
	mockBusinessTypes = []string{
		"Retail Shop", "Handicrafts", "Agriculture",
		"Small Manufacturing", "Services", "Food Business",
	}
	mockTenures = []int{12, 24, 36, 48}
)

type GeneratorParams struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   beneficiarydomain.Repository
	Engine *engine.Engine
}

// Generator inserts realistic mock beneficiaries, each pre-scored by the
// engine. No narrative generation happens on this path.
type Generator struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   beneficiarydomain.Repository
	engine *engine.Engine
}

func NewGenerator(p GeneratorParams) *Generator {
	return &Generator{
		db:     p.DB,
		log:    p.Log.Named("seed.generator"),
		genID:  p.GenID,
		repo:   p.Repo,
		engine: p.Engine,
	}
}

func (g *Generator) Generate(ctx context.Context, count int) ([]string, error) {
	ids := make([]string, 0, count)

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			beneficiary := g.randomBeneficiary()

			score := g.engine.Score(beneficiary)
			band, category := g.engine.Classify(beneficiary, score)
			beneficiary.CreditScore = &score
			beneficiary.RiskBand = &band
			beneficiary.IncomeCategory = &category

			if err := g.repo.Insert(ctx, tx, beneficiary); err != nil {
				return err
			}
			ids = append(ids, beneficiary.ID.String())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("mock beneficiaries generated", zap.Int("count", len(ids)))
	return ids, nil
}

func (g *Generator) randomBeneficiary() *beneficiarydomain.Beneficiary {
	numLoans := 1 + rand.IntN(5)
	history := make([]beneficiarydomain.RepaymentRecord, 0, numLoans)
	for i := 0; i < numLoans; i++ {
		history = append(history, beneficiarydomain.RepaymentRecord{
			LoanID:      fmt.Sprintf("LOAN%d", 1000+rand.IntN(9000)),
			AmountPaid:  randFloat(5000, 50000),
			PaymentDate: time.Now().UTC().AddDate(0, 0, -(30 + rand.IntN(336))),
			Status:      randomRepaymentStatus(),
		})
	}

	electricity := randFloat(50, 400)
	mobile := randFloat(100, 800)
	utility := randFloat(500, 3000)

	return &beneficiarydomain.Beneficiary{
		ID:               g.genID.Generate(),
		Name:             mockNames[rand.IntN(len(mockNames))],
		Age:              25 + rand.IntN(36),
		BusinessType:     mockBusinessTypes[rand.IntN(len(mockBusinessTypes))],
		LoanAmount:       randFloat(10000, 200000),
		LoanTenureMonths: mockTenures[rand.IntN(len(mockTenures))],
		RepaymentHistory: history,
		ConsumptionData: &beneficiarydomain.ConsumptionData{
			ElectricityKWH:        &electricity,
			MobileRechargeMonthly: &mobile,
			UtilityBillAvg:        &utility,
		},
	}
}

// Repayment statuses skew toward on-time so generated portfolios resemble
// a real NBCFDC book.
func randomRepaymentStatus() beneficiarydomain.RepaymentStatus {
	switch roll := rand.Float64(); {
	case roll < 0.7:
		return beneficiarydomain.RepaymentOnTime
	case roll < 0.9:
		return beneficiarydomain.RepaymentDelayed
	default:
		return beneficiarydomain.RepaymentMissed
	}
}

func randFloat(low, high float64) float64 {
	return low + rand.Float64()*(high-low)
}
