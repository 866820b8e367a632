package beneficiary

import (
	"github.com/setucred/setucred/internal/beneficiary/repository"
	"github.com/setucred/setucred/internal/beneficiary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("beneficiary.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
