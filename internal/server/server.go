package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tabletab/tabletab/internal/billing"
	billingdomain "github.com/tabletab/tabletab/internal/billing/domain"
	"github.com/tabletab/tabletab/internal/catalog"
	catalogdomain "github.com/tabletab/tabletab/internal/catalog/domain"
	"github.com/tabletab/tabletab/internal/config"
	"github.com/tabletab/tabletab/internal/customer"
	customerdomain "github.com/tabletab/tabletab/internal/customer/domain"
	"github.com/tabletab/tabletab/internal/observability"
	obsmiddleware "github.com/tabletab/tabletab/internal/observability/logger"
	obsmetrics "github.com/tabletab/tabletab/internal/observability/metrics"
	obstracing "github.com/tabletab/tabletab/internal/observability/tracing"
	"github.com/tabletab/tabletab/internal/order"
	orderdomain "github.com/tabletab/tabletab/internal/order/domain"
	"github.com/tabletab/tabletab/internal/providers/pdf"
	"github.com/tabletab/tabletab/internal/restaurant"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
	"github.com/tabletab/tabletab/internal/table"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	restaurant.Module,
	catalog.Module,
	table.Module,
	customer.Module,
	order.Module,
	billing.Module,
	pdf.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	restaurantSvc restaurantdomain.Service
	catalogSvc    catalogdomain.Service
	tableSvc      tabledomain.Service
	customerSvc   customerdomain.Service
	orderSvc      orderdomain.Service
	billingSvc    billingdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	RestaurantSvc restaurantdomain.Service
	CatalogSvc    catalogdomain.Service
	TableSvc      tabledomain.Service
	CustomerSvc   customerdomain.Service
	OrderSvc      orderdomain.Service
	BillingSvc    billingdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		restaurantSvc: p.RestaurantSvc,
		catalogSvc:    p.CatalogSvc,
		tableSvc:      p.TableSvc,
		customerSvc:   p.CustomerSvc,
		orderSvc:      p.OrderSvc,
		billingSvc:    p.BillingSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Restaurants --------
	v1.POST("/restaurants", s.CreateRestaurant)
	v1.GET("/restaurants", s.ListRestaurants)
	v1.GET("/restaurants/:id", s.GetRestaurantByID)
	v1.PATCH("/restaurants/:id/settings", s.UpdateRestaurantSettings)

	scoped := v1.Group("", s.RestaurantContext())

	// -------- Tables --------
	scoped.POST("/tables", s.CreateTable)
	scoped.GET("/tables", s.ListTables)
	scoped.GET("/tables/:id", s.GetTableByID)
	scoped.GET("/tables/:id/order", s.GetOrderByTable)
	scoped.POST("/tables/:id/release", s.ReleaseTable)

	// -------- Customers --------
	scoped.POST("/customers", s.CreateCustomer)
	scoped.GET("/customers", s.ListCustomers)
	scoped.GET("/customers/lookup", s.FindCustomerByPhone)
	scoped.GET("/customers/:id", s.GetCustomerByID)

	// -------- Catalog --------
	scoped.POST("/dishes", s.CreateDish)
	scoped.GET("/dishes", s.ListDishes)
	scoped.POST("/combos", s.CreateCombo)
	scoped.GET("/combos", s.ListCombos)

	// -------- Orders --------
	scoped.POST("/orders", s.OpenOrder)
	scoped.GET("/orders/:id", s.GetOrderView)
	scoped.POST("/orders/:id/lines", s.AddOrderLines)
	scoped.POST("/orders/:id/settle", s.SettleOrder)
	scoped.POST("/order-lines/:id/status", s.AdvanceOrderLine)

	// -------- Bills & reporting --------
	scoped.GET("/bills", s.ListBills)
	scoped.GET("/bills/:id", s.GetBillByID)
	scoped.GET("/bills/:id/receipt.pdf", s.GetBillReceipt)
	scoped.GET("/orders/:id/bill", s.GetBillByOrder)
	scoped.GET("/reports/revenue", s.GetRevenueReport)
}
