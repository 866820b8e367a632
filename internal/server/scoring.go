package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
)

func (s *Server) CalculateScore(c *gin.Context) {
	resp, err := s.scoringsvc.Calculate(c.Request.Context(), scoringdomain.CalculateRequest{
		BeneficiaryID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetLatestScore(c *gin.Context) {
	resp, err := s.scoringsvc.GetLatest(c.Request.Context(), scoringdomain.GetLatestRequest{
		BeneficiaryID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
