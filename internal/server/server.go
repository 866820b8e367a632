package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/setucred/setucred/internal/auth"
	authdomain "github.com/setucred/setucred/internal/auth/domain"
	"github.com/setucred/setucred/internal/beneficiary"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/loan"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
	"github.com/setucred/setucred/internal/observability"
	obsmiddleware "github.com/setucred/setucred/internal/observability/logger"
	obsmetrics "github.com/setucred/setucred/internal/observability/metrics"
	obstracing "github.com/setucred/setucred/internal/observability/tracing"
	"github.com/setucred/setucred/internal/ratelimit"
	"github.com/setucred/setucred/internal/reporting"
	reportingdomain "github.com/setucred/setucred/internal/reporting/domain"
	"github.com/setucred/setucred/internal/scoring"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
	"github.com/setucred/setucred/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	beneficiary.Module,
	scoring.Module,
	loan.Module,
	reporting.Module,
	ratelimit.Module,
	fx.Provide(seed.NewGenerator),
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterRoutes()
	}),
	fx.Invoke(RunHTTP),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(corsMiddleware(cfg))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsMiddleware(cfg config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if allowAllOrigins(cfg.CORSOrigins) {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	return cors.New(corsCfg)
}

func allowAllOrigins(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	genID          *snowflake.Node
	authsvc        authdomain.Service
	beneficiarysvc beneficiarydomain.Service
	scoringsvc     scoringdomain.Service
	loansvc        loandomain.Service
	reportingsvc   reportingdomain.Service
	generator      *seed.Generator
	scoreLimiter   *ratelimit.ScoreRateLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	DB             *gorm.DB
	GenID          *snowflake.Node
	Authsvc        authdomain.Service
	Beneficiarysvc beneficiarydomain.Service
	Scoringsvc     scoringdomain.Service
	Loansvc        loandomain.Service
	Reportingsvc   reportingdomain.Service
	Generator      *seed.Generator
	ScoreLimiter   *ratelimit.ScoreRateLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics         `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		authsvc:        p.Authsvc,
		beneficiarysvc: p.Beneficiarysvc,
		scoringsvc:     p.Scoringsvc,
		loansvc:        p.Loansvc,
		reportingsvc:   p.Reportingsvc,
		generator:      p.Generator,
		scoreLimiter:   p.ScoreLimiter,
		obsMetrics:     p.ObsMetrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", s.Register)
		authGroup.POST("/login", s.Login)
		authGroup.GET("/me", s.AuthRequired(), s.Me)
	}

	protected := api.Group("", s.AuthRequired())
	{
		protected.GET("/beneficiaries", s.ListBeneficiaries)
		protected.POST("/beneficiaries", s.CreateBeneficiary)
		protected.GET("/beneficiaries/:id", s.GetBeneficiaryByID)
		protected.POST("/beneficiaries/:id/score", s.ScoreRateLimit(), s.CalculateScore)
		protected.GET("/beneficiaries/:id/score", s.GetLatestScore)
		protected.PUT("/beneficiaries/:id/consumption", s.UpdateConsumption)

		protected.POST("/loans/apply", s.ApplyLoan)
		protected.GET("/loans", s.ListLoans)

		protected.POST("/mock-data/generate", s.GenerateMockData)
		protected.GET("/stats", s.GetStats)
	}
}
