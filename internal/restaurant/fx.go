package restaurant

import (
	"github.com/tabletab/tabletab/internal/restaurant/repository"
	"github.com/tabletab/tabletab/internal/restaurant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("restaurant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
