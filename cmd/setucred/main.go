package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/setucred/setucred/internal/cache"
	"github.com/setucred/setucred/internal/clock"
	"github.com/setucred/setucred/internal/config"
	"github.com/setucred/setucred/internal/migration"
	"github.com/setucred/setucred/internal/observability"
	"github.com/setucred/setucred/internal/server"
	"github.com/setucred/setucred/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		cache.Module,
		clock.Module,

		server.Module,
		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
