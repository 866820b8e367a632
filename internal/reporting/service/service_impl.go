package service

import (
	"context"

	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
	"github.com/setucred/setucred/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	LoanRepo loandomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	loanRepo loandomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("reporting.service"),
		loanRepo: p.LoanRepo,
	}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	stats := domain.Stats{RiskDistribution: map[string]int64{}}

	err := s.db.WithContext(ctx).
		Model(&beneficiarydomain.Beneficiary{}).
		Count(&stats.TotalBeneficiaries).Error
	if err != nil {
		return domain.Stats{}, err
	}

	type bandRow struct {
		RiskBand string
		Total    int64
	}
	var bands []bandRow
	err = s.db.WithContext(ctx).
		Model(&beneficiarydomain.Beneficiary{}).
		Select("risk_band, COUNT(*) AS total").
		Where("risk_band IS NOT NULL").
		Group("risk_band").
		Find(&bands).Error
	if err != nil {
		return domain.Stats{}, err
	}
	for _, row := range bands {
		stats.RiskDistribution[row.RiskBand] = row.Total
	}

	byStatus, err := s.loanRepo.CountByStatus(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	for _, total := range byStatus {
		stats.TotalApplications += total
	}
	stats.ApprovedLoans = byStatus[loandomain.StatusApproved]
	if stats.TotalApplications > 0 {
		stats.ApprovalRate = float64(stats.ApprovedLoans) / float64(stats.TotalApplications) * 100
	}

	return stats, nil
}
