package auth

import (
	"github.com/setucred/setucred/internal/auth/repository"
	"github.com/setucred/setucred/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
