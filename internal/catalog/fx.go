package catalog

import (
	"github.com/tabletab/tabletab/internal/catalog/repository"
	"github.com/tabletab/tabletab/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
