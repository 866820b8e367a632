package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
)

type applyLoanRequest struct {
	BeneficiaryID string  `json:"beneficiary_id"`
	Amount        float64 `json:"amount"`
	TenureMonths  int     `json:"tenure_months"`
	Purpose       string  `json:"purpose"`
}

func (s *Server) ApplyLoan(c *gin.Context) {
	var req applyLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loansvc.Apply(c.Request.Context(), loandomain.ApplyRequest{
		BeneficiaryID: strings.TrimSpace(req.BeneficiaryID),
		Amount:        req.Amount,
		TenureMonths:  req.TenureMonths,
		Purpose:       req.Purpose,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLoans(c *gin.Context) {
	var query struct {
		BeneficiaryID string `form:"beneficiary_id"`
		Limit         int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.loansvc.List(c.Request.Context(), loandomain.ListRequest{
		BeneficiaryID: strings.TrimSpace(query.BeneficiaryID),
		Limit:         query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
