package domain

import (
	"context"
	"errors"
)

type CreateBeneficiaryRequest struct {
	Name             string
	Age              int
	BusinessType     string
	LoanAmount       float64
	LoanTenureMonths int
	RepaymentHistory []RepaymentRecord
	ConsumptionData  *ConsumptionData
}

type ListBeneficiaryRequest struct {
	Limit int
}

type GetBeneficiaryRequest struct {
	ID string
}

type UpdateConsumptionRequest struct {
	ID   string
	Data ConsumptionData
}

type Service interface {
	Create(context.Context, CreateBeneficiaryRequest) (Beneficiary, error)
	List(context.Context, ListBeneficiaryRequest) ([]Beneficiary, error)
	GetByID(context.Context, GetBeneficiaryRequest) (Beneficiary, error)
	UpdateConsumption(context.Context, UpdateConsumptionRequest) error
}

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidAge        = errors.New("invalid_age")
	ErrInvalidLoanAmount = errors.New("invalid_loan_amount")
	ErrInvalidTenure     = errors.New("invalid_loan_tenure_months")
	ErrInvalidRepayment  = errors.New("invalid_repayment_history")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
)
