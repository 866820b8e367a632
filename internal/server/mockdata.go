package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxMockBatch = 100

func (s *Server) GenerateMockData(c *gin.Context) {
	var query struct {
		Count int `form:"count,default=10"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if query.Count <= 0 || query.Count > maxMockBatch {
		AbortWithError(c, newValidationError("count", "invalid_count", "count must be between 1 and 100"))
		return
	}

	ids, err := s.generator.Generate(c.Request.Context(), query.Count)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Generated %d mock beneficiaries", len(ids)),
		"ids":     ids,
	})
}
