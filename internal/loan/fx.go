package loan

import (
	"github.com/setucred/setucred/internal/loan/repository"
	"github.com/setucred/setucred/internal/loan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("loan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
