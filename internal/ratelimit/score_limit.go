package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/setucred/setucred/internal/config"
)

const (
	keyScoreActor = "score:actor:%s"
	keyScoreLock  = "score:lock:%s"
)

// ScoreRateLimiter throttles scoring runs per officer and serializes
// concurrent runs for the same beneficiary. Scoring runs call an external
// model, so unbounded retries are both slow and expensive.
type ScoreRateLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewScoreRateLimiter(cfg config.Config) (*ScoreRateLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.Redis.Addr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ScoreRate <= 0 || limitCfg.ScoreBurst <= 0 {
		return nil, errors.New("score rate limit must be positive")
	}
	if limitCfg.LockTTL <= 0 {
		return nil, errors.New("score lock ttl must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Redis.Password),
		DB:       cfg.Redis.DB,
	})

	return &ScoreRateLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		rate:    limitCfg.ScoreRate,
		burst:   limitCfg.ScoreBurst,
		lockTTL: limitCfg.LockTTL,
	}, nil
}

func (l *ScoreRateLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *ScoreRateLimiter) AllowActor(ctx context.Context, actorID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyScoreActor, strings.TrimSpace(actorID)), l.rate, l.burst)
}

func (l *ScoreRateLimiter) TryLockBeneficiary(ctx context.Context, beneficiaryID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(keyScoreLock, strings.TrimSpace(beneficiaryID))
	return l.locker.TryLock(ctx, key, l.lockTTL)
}

func (l *ScoreRateLimiter) ReleaseBeneficiary(ctx context.Context, beneficiaryID, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keyScoreLock, strings.TrimSpace(beneficiaryID))
	return l.locker.Release(ctx, key, token)
}
