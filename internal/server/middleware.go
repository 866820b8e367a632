package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/setucred/setucred/internal/observability/context"
)

const (
	contextUserIDKey   = "user_id"
	contextUsernameKey = "username"
)

// AuthRequired validates the Authorization bearer token and stores the
// officer identity on the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.authsvc.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserIDKey, claims.UserID.String())
		c.Set(contextUsernameKey, claims.Username)
		ctx := obscontext.WithActorID(c.Request.Context(), claims.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ScoreRateLimit throttles scoring runs per officer and takes a short lock
// on the beneficiary so concurrent runs do not race on the snapshot. Redis
// failures fail open: scoring availability beats throttle precision.
func (s *Server) ScoreRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.scoreLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		actorID := c.GetString(contextUserIDKey)
		allowed, err := s.scoreLimiter.AllowActor(ctx, actorID)
		if err == nil && !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}

		beneficiaryID := strings.TrimSpace(c.Param("id"))
		token, locked, err := s.scoreLimiter.TryLockBeneficiary(ctx, beneficiaryID)
		if err == nil && !locked {
			AbortWithError(c, ErrConflict)
			return
		}
		if token != "" {
			defer func() {
				_ = s.scoreLimiter.ReleaseBeneficiary(ctx, beneficiaryID, token)
			}()
		}

		c.Next()
	}
}
