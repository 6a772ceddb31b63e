package table

import (
	"github.com/tabletab/tabletab/internal/table/repository"
	"github.com/tabletab/tabletab/internal/table/service"
	"go.uber.org/fx"
)

var Module = fx.Module("table.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
