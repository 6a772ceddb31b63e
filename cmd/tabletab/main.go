package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/config"
	"github.com/tabletab/tabletab/internal/lock"
	"github.com/tabletab/tabletab/internal/migration"
	"github.com/tabletab/tabletab/internal/observability"
	"github.com/tabletab/tabletab/internal/server"
	"github.com/tabletab/tabletab/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,

		// Schema and bootstrap data
		migration.Module,

		// Domain modules plus the HTTP adapter
		server.Module,
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
