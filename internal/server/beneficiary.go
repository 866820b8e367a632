package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
)

type repaymentRecordRequest struct {
	LoanID      string    `json:"loan_id"`
	AmountPaid  float64   `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	Status      string    `json:"status"`
}

type consumptionRequest struct {
	ElectricityKWH        *float64 `json:"electricity_kwh"`
	MobileRechargeMonthly *float64 `json:"mobile_recharge_monthly"`
	UtilityBillAvg        *float64 `json:"utility_bill_avg"`
}

type createBeneficiaryRequest struct {
	Name             string                   `json:"name"`
	Age              int                      `json:"age"`
	BusinessType     string                   `json:"business_type"`
	LoanAmount       float64                  `json:"loan_amount"`
	LoanTenureMonths int                      `json:"loan_tenure_months"`
	RepaymentHistory []repaymentRecordRequest `json:"repayment_history"`
	ConsumptionData  *consumptionRequest      `json:"consumption_data"`
}

func (s *Server) CreateBeneficiary(c *gin.Context) {
	var req createBeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	history := make([]beneficiarydomain.RepaymentRecord, 0, len(req.RepaymentHistory))
	for _, record := range req.RepaymentHistory {
		history = append(history, beneficiarydomain.RepaymentRecord{
			LoanID:      strings.TrimSpace(record.LoanID),
			AmountPaid:  record.AmountPaid,
			PaymentDate: record.PaymentDate,
			Status:      beneficiarydomain.RepaymentStatus(record.Status),
		})
	}

	resp, err := s.beneficiarysvc.Create(c.Request.Context(), beneficiarydomain.CreateBeneficiaryRequest{
		Name:             strings.TrimSpace(req.Name),
		Age:              req.Age,
		BusinessType:     strings.TrimSpace(req.BusinessType),
		LoanAmount:       req.LoanAmount,
		LoanTenureMonths: req.LoanTenureMonths,
		RepaymentHistory: history,
		ConsumptionData:  consumptionFromRequest(req.ConsumptionData),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBeneficiaries(c *gin.Context) {
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.beneficiarysvc.List(c.Request.Context(), beneficiarydomain.ListBeneficiaryRequest{
		Limit: query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBeneficiaryByID(c *gin.Context) {
	resp, err := s.beneficiarysvc.GetByID(c.Request.Context(), beneficiarydomain.GetBeneficiaryRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateConsumption(c *gin.Context) {
	var req consumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.beneficiarysvc.UpdateConsumption(c.Request.Context(), beneficiarydomain.UpdateConsumptionRequest{
		ID: strings.TrimSpace(c.Param("id")),
		Data: beneficiarydomain.ConsumptionData{
			ElectricityKWH:        req.ElectricityKWH,
			MobileRechargeMonthly: req.MobileRechargeMonthly,
			UtilityBillAvg:        req.UtilityBillAvg,
		},
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "consumption data updated"})
}

func consumptionFromRequest(req *consumptionRequest) *beneficiarydomain.ConsumptionData {
	if req == nil {
		return nil
	}
	return &beneficiarydomain.ConsumptionData{
		ElectricityKWH:        req.ElectricityKWH,
		MobileRechargeMonthly: req.MobileRechargeMonthly,
		UtilityBillAvg:        req.UtilityBillAvg,
	}
}
