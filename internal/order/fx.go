package order

import (
	"github.com/tabletab/tabletab/internal/order/repository"
	"github.com/tabletab/tabletab/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
