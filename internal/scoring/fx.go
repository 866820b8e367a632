package scoring

import (
	"github.com/setucred/setucred/internal/scoring/engine"
	"github.com/setucred/setucred/internal/scoring/explain"
	"github.com/setucred/setucred/internal/scoring/service"
	"go.uber.org/fx"
)

var Module = fx.Module("scoring.service",
	fx.Provide(engine.New),
	fx.Provide(explain.NewOpenAI),
	fx.Provide(service.New),
)
