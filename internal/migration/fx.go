package migration

import (
	authdomain "github.com/setucred/setucred/internal/auth/domain"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	"github.com/setucred/setucred/internal/config"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
	"github.com/setucred/setucred/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			err := conn.AutoMigrate(
				&authdomain.User{},
				&beneficiarydomain.Beneficiary{},
				&loandomain.LoanApplication{},
			)
			if err != nil {
				return err
			}
		}

		if cfg.Environment != "production" {
			return seed.EnsureDefaultOfficer(conn)
		}
		return nil
	}),
)
