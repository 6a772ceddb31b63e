package customer

import (
	"github.com/tabletab/tabletab/internal/customer/repository"
	"github.com/tabletab/tabletab/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
