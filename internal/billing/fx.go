package billing

import (
	"github.com/tabletab/tabletab/internal/billing/repository"
	"github.com/tabletab/tabletab/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
