package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/setucred/setucred/internal/beneficiary/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultListLimit = 1000

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("beneficiary.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBeneficiaryRequest) (domain.Beneficiary, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Beneficiary{}, domain.ErrInvalidName
	}
	if req.Age <= 0 {
		return domain.Beneficiary{}, domain.ErrInvalidAge
	}
	if req.LoanAmount <= 0 {
		return domain.Beneficiary{}, domain.ErrInvalidLoanAmount
	}
	if req.LoanTenureMonths <= 0 {
		return domain.Beneficiary{}, domain.ErrInvalidTenure
	}
	for _, record := range req.RepaymentHistory {
		if !record.Status.Valid() {
			return domain.Beneficiary{}, domain.ErrInvalidRepayment
		}
	}

	history := req.RepaymentHistory
	if history == nil {
		history = []domain.RepaymentRecord{}
	}

	now := time.Now().UTC()
	beneficiary := domain.Beneficiary{
		ID:               s.genID.Generate(),
		Name:             name,
		Age:              req.Age,
		BusinessType:     strings.TrimSpace(req.BusinessType),
		LoanAmount:       req.LoanAmount,
		LoanTenureMonths: req.LoanTenureMonths,
		RepaymentHistory: history,
		ConsumptionData:  req.ConsumptionData,
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &beneficiary); err != nil {
		return domain.Beneficiary{}, err
	}

	return beneficiary, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBeneficiaryRequest) ([]domain.Beneficiary, error) {
	limit := req.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	items, err := s.repo.List(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}

	beneficiaries := make([]domain.Beneficiary, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		beneficiaries = append(beneficiaries, *item)
	}
	return beneficiaries, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetBeneficiaryRequest) (domain.Beneficiary, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Beneficiary{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Beneficiary{}, err
	}
	if item == nil {
		return domain.Beneficiary{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) UpdateConsumption(ctx context.Context, req domain.UpdateConsumptionRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	data := req.Data
	return s.repo.UpdateConsumption(ctx, s.db, id, &data)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
