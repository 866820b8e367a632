package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/cache"
	"github.com/setucred/setucred/internal/observability/metrics"
	"github.com/setucred/setucred/internal/scoring/domain"
	"github.com/setucred/setucred/internal/scoring/engine"
	"github.com/setucred/setucred/internal/scoring/explain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       beneficiarydomain.Repository
	Engine     *engine.Engine
	Explainer  domain.Explainer
	Cache      *cache.ScoreCache `optional:"true"`
	ObsMetrics *metrics.Metrics  `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       beneficiarydomain.Repository
	engine     *engine.Engine
	explainer  domain.Explainer
	cache      *cache.ScoreCache
	obsMetrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("scoring.service"),
		repo:       p.Repo,
		engine:     p.Engine,
		explainer:  p.Explainer,
		cache:      p.Cache,
		obsMetrics: p.ObsMetrics,
	}
}

// Calculate runs one full scoring pass for a beneficiary: compute the
// composite score, classify it, attach a narrative, persist the snapshot.
// Re-running overwrites the previous snapshot; the operation is idempotent
// for identical input.
func (s *Service) Calculate(ctx context.Context, req domain.CalculateRequest) (domain.CreditScoreResult, error) {
	id, err := s.parseID(req.BeneficiaryID)
	if err != nil {
		return domain.CreditScoreResult{}, err
	}

	beneficiary, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CreditScoreResult{}, err
	}
	if beneficiary == nil {
		return domain.CreditScoreResult{}, beneficiarydomain.ErrNotFound
	}

	score := s.engine.Score(beneficiary)
	band, category := s.engine.Classify(beneficiary, score)

	// The narrative is advisory: the explainer degrades internally and never
	// returns an error, so a slow or failing collaborator cannot abort the
	// scoring run.
	explanation := s.explainer.Explain(ctx, domain.ExplainRequest{
		BeneficiaryID:  beneficiary.ID.String(),
		Name:           beneficiary.Name,
		BusinessType:   beneficiary.BusinessType,
		LoanAmount:     beneficiary.LoanAmount,
		RepaymentCount: len(beneficiary.RepaymentHistory),
		CreditScore:    score,
		RiskBand:       band,
	})

	if err := s.repo.UpdateScore(ctx, s.db, id, beneficiarydomain.ScoreSnapshot{
		CreditScore:    score,
		RiskBand:       band,
		IncomeCategory: category,
	}); err != nil {
		return domain.CreditScoreResult{}, err
	}

	result := domain.CreditScoreResult{
		CreditScore:     score,
		RiskBand:        band,
		IncomeCategory:  category,
		Explanation:     explanation.Explanation,
		Recommendations: explanation.Recommendations,
	}

	if s.cache != nil {
		s.cache.SetLatest(ctx, id.String(), result)
	}
	if s.obsMetrics != nil {
		s.obsMetrics.RecordScoreCalculated(ctx, string(band))
	}

	s.log.Info("credit score calculated",
		zap.String("beneficiary_id", id.String()),
		zap.Float64("credit_score", score),
		zap.String("risk_band", string(band)),
		zap.String("income_category", string(category)),
	)

	return result, nil
}

// GetLatest returns the most recent scoring result without re-scoring.
// Cache first; otherwise the persisted snapshot is rehydrated with the
// deterministic narrative.
func (s *Service) GetLatest(ctx context.Context, req domain.GetLatestRequest) (domain.CreditScoreResult, error) {
	id, err := s.parseID(req.BeneficiaryID)
	if err != nil {
		return domain.CreditScoreResult{}, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetLatest(ctx, id.String()); ok {
			return cached, nil
		}
	}

	beneficiary, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.CreditScoreResult{}, err
	}
	if beneficiary == nil {
		return domain.CreditScoreResult{}, beneficiarydomain.ErrNotFound
	}
	if !beneficiary.Scored() {
		return domain.CreditScoreResult{}, domain.ErrNotScoredYet
	}

	fallback := explain.FailureFallback()
	return domain.CreditScoreResult{
		CreditScore:     *beneficiary.CreditScore,
		RiskBand:        *beneficiary.RiskBand,
		IncomeCategory:  *beneficiary.IncomeCategory,
		Explanation:     fallback.Explanation,
		Recommendations: fallback.Recommendations,
	}, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
