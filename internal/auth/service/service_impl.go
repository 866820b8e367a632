package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/setucred/setucred/internal/auth/domain"
	"github.com/setucred/setucred/internal/auth/password"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
}

type Service struct {
	secret   []byte
	tokenTTL time.Duration
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		secret:   []byte(p.Config.AuthJWTSecret),
		tokenTTL: p.Config.AuthTokenTTL,
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		repo:     p.Repo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.TokenResponse{}, domain.ErrInvalidUsername
	}
	if req.Password == "" {
		return domain.TokenResponse{}, domain.ErrInvalidPassword
	}

	existing, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if existing != nil {
		return domain.TokenResponse{}, domain.ErrUserExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	user := &domain.User{
		ID:           s.genID.Generate(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		// Concurrent registration of the same username loses the race at
		// the unique index, not at the lookup above.
		if db.IsDuplicateKeyErr(err) {
			return domain.TokenResponse{}, domain.ErrUserExists
		}
		return domain.TokenResponse{}, err
	}

	s.log.Info("officer registered", zap.String("user_id", user.ID.String()), zap.String("username", username))
	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *Service) Authenticate(ctx context.Context, token string) (domain.Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	subject, _ := claims.GetSubject()
	userID, err := snowflake.ParseString(subject)
	if err != nil || userID == 0 {
		return domain.Claims{}, domain.ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	return domain.Claims{UserID: userID, Username: username}, nil
}

func (s *Service) issueToken(user *domain.User) (domain.TokenResponse, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	return domain.TokenResponse{AccessToken: signed, TokenType: "bearer"}, nil
}
