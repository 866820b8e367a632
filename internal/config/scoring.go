package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ScoringConfig carries every weight, reference value and threshold used by the
// scoring engine and the loan decision policy. Keeping them here instead of as
// inline literals makes the boundary behavior directly testable and tunable.
type ScoringConfig struct {
	RepaymentWeight  float64 `mapstructure:"repaymentWeight"`
	RepaymentDefault float64 `mapstructure:"repaymentDefault"`

	ConsumptionSubWeight float64 `mapstructure:"consumptionSubWeight"`
	ConsumptionDefault   float64 `mapstructure:"consumptionDefault"`
	ElectricityRef       float64 `mapstructure:"electricityRef"`
	MobileRef            float64 `mapstructure:"mobileRef"`
	UtilityRef           float64 `mapstructure:"utilityRef"`

	UtilizationOptimal float64 `mapstructure:"utilizationOptimal"`
	UtilizationSmall   float64 `mapstructure:"utilizationSmall"`
	UtilizationLarge   float64 `mapstructure:"utilizationLarge"`
	OptimalLoanMin     float64 `mapstructure:"optimalLoanMin"`
	OptimalLoanMax     float64 `mapstructure:"optimalLoanMax"`

	TenureOptimal    float64 `mapstructure:"tenureOptimal"`
	TenureOffRange   float64 `mapstructure:"tenureOffRange"`
	OptimalTenureMin int     `mapstructure:"optimalTenureMin"`
	OptimalTenureMax int     `mapstructure:"optimalTenureMax"`

	LowRiskThreshold    float64 `mapstructure:"lowRiskThreshold"`
	MediumRiskThreshold float64 `mapstructure:"mediumRiskThreshold"`

	MediumIncomeThreshold    float64 `mapstructure:"mediumIncomeThreshold"`
	LowMediumIncomeThreshold float64 `mapstructure:"lowMediumIncomeThreshold"`

	ApprovalThreshold float64 `mapstructure:"approvalThreshold"`
}

// DefaultScoringConfig returns the production scoring parameters.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		RepaymentWeight:  40,
		RepaymentDefault: 20,

		ConsumptionSubWeight: 10,
		ConsumptionDefault:   15,
		ElectricityRef:       300,
		MobileRef:            500,
		UtilityRef:           2000,

		UtilizationOptimal: 20,
		UtilizationSmall:   15,
		UtilizationLarge:   10,
		OptimalLoanMin:     10_000,
		OptimalLoanMax:     100_000,

		TenureOptimal:    10,
		TenureOffRange:   5,
		OptimalTenureMin: 12,
		OptimalTenureMax: 36,

		LowRiskThreshold:    75,
		MediumRiskThreshold: 50,

		MediumIncomeThreshold:    500,
		LowMediumIncomeThreshold: 200,

		ApprovalThreshold: 60,
	}
}

// ScoringConfigHolder exposes the current scoring parameters with hot reload.
type ScoringConfigHolder struct {
	current atomic.Value // holds ScoringConfig
}

// NewScoringConfigHolder reads scoring.yml when present and falls back to the
// built-in defaults. File changes are picked up without a restart.
func NewScoringConfigHolder() (*ScoringConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("scoring")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/setucred/config")
	v.AddConfigPath("/etc/setucred")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SETUCRED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &ScoringConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultScoringConfig())
		return holder, nil
	}

	cfg, err := unmarshalScoring(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.OnConfigChange(func(e fsnotify.Event) {
		reloaded, err := unmarshalScoring(v)
		if err != nil {
			log.Printf("scoring config reload failed: %v", err)
			return
		}
		holder.current.Store(reloaded)
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the active scoring parameters.
func (h *ScoringConfigHolder) Current() ScoringConfig {
	if v, ok := h.current.Load().(ScoringConfig); ok {
		return v
	}
	return DefaultScoringConfig()
}

// Store replaces the active scoring parameters. Used by tests.
func (h *ScoringConfigHolder) Store(cfg ScoringConfig) {
	h.current.Store(cfg)
}

func unmarshalScoring(v *viper.Viper) (ScoringConfig, error) {
	cfg := DefaultScoringConfig()
	if err := v.UnmarshalKey("scoring", &cfg); err != nil {
		return ScoringConfig{}, err
	}
	return cfg, nil
}
