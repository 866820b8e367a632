package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/clock"
	"github.com/setucred/setucred/internal/loan/domain"
	"github.com/setucred/setucred/internal/observability/metrics"
	"github.com/setucred/setucred/internal/scoring/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultListLimit = 1000

type Params struct {
	fx.In

	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	Repo            domain.Repository
	BeneficiaryRepo beneficiarydomain.Repository
	Engine          *engine.Engine
	Clock           clock.Clock
	ObsMetrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	repo            domain.Repository
	beneficiaryRepo beneficiarydomain.Repository
	engine          *engine.Engine
	clock           clock.Clock
	obsMetrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("loan.service"),
		genID:           p.GenID,
		repo:            p.Repo,
		beneficiaryRepo: p.BeneficiaryRepo,
		engine:          p.Engine,
		clock:           p.Clock,
		obsMetrics:      p.ObsMetrics,
	}
}

func (s *Service) Apply(ctx context.Context, req domain.ApplyRequest) (*domain.LoanApplication, error) {
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.TenureMonths <= 0 {
		return nil, domain.ErrInvalidTenure
	}

	beneficiaryID, err := snowflake.ParseString(strings.TrimSpace(req.BeneficiaryID))
	if err != nil || beneficiaryID == 0 {
		return nil, beneficiarydomain.ErrInvalidID
	}

	beneficiary, err := s.beneficiaryRepo.FindByID(ctx, s.db, beneficiaryID)
	if err != nil {
		return nil, err
	}
	if beneficiary == nil {
		return nil, beneficiarydomain.ErrNotFound
	}
	if !beneficiary.Scored() {
		return nil, domain.ErrScoreNotCalculated
	}

	status := domain.StatusRejected
	if s.engine.Approvable(*beneficiary.CreditScore) {
		status = domain.StatusApproved
	}

	now := s.clock.Now()
	application := &domain.LoanApplication{
		ID:              s.genID.Generate(),
		BeneficiaryID:   beneficiary.ID,
		BeneficiaryName: beneficiary.Name,
		Amount:          req.Amount,
		TenureMonths:    req.TenureMonths,
		Purpose:         strings.TrimSpace(req.Purpose),
		Status:          status,
		ScoreAtDecision: *beneficiary.CreditScore,
		CreatedAt:       now,
		ProcessedAt:     &now,
	}

	if err := s.repo.Insert(ctx, s.db, application); err != nil {
		return nil, err
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordLoanDecision(ctx, string(status))
	}

	s.log.Info("loan application decided",
		zap.String("loan_id", application.ID.String()),
		zap.String("beneficiary_id", beneficiary.ID.String()),
		zap.Float64("score_at_decision", application.ScoreAtDecision),
		zap.String("status", string(status)),
	)

	return application, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.LoanApplication, error) {
	filter := domain.ListFilter{Limit: req.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	if trimmed := strings.TrimSpace(req.BeneficiaryID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil || id == 0 {
			return nil, beneficiarydomain.ErrInvalidID
		}
		filter.BeneficiaryID = &id
	}

	return s.repo.List(ctx, s.db, filter)
}
