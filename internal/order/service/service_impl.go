package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/tabletab/tabletab/internal/catalog/domain"
	"github.com/tabletab/tabletab/internal/clock"
	customerdomain "github.com/tabletab/tabletab/internal/customer/domain"
	"github.com/tabletab/tabletab/internal/lock"
	"github.com/tabletab/tabletab/internal/observability/metrics"
	"github.com/tabletab/tabletab/internal/order/domain"
	restaurantdomain "github.com/tabletab/tabletab/internal/restaurant/domain"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tableOpenLockTTL = 10 * time.Second

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	TableRepo   tabledomain.Repository
	Customers   customerdomain.Service
	Catalog     catalogdomain.Service
	Restaurants restaurantdomain.Service
	Locker      *lock.Locker `optional:"true"`
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	tableRepo   tabledomain.Repository
	customers   customerdomain.Service
	catalog     catalogdomain.Service
	restaurants restaurantdomain.Service
	locker      *lock.Locker
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("order.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		tableRepo:   p.TableRepo,
		customers:   p.Customers,
		catalog:     p.Catalog,
		restaurants: p.Restaurants,
		locker:      p.Locker,
		metrics:     p.Metrics,
	}
}

func (s *Service) Open(ctx context.Context, req domain.OpenOrderRequest) (domain.Order, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Order{}, domain.ErrInvalidRestaurant
	}

	tableID, err := s.parseID(req.TableID)
	if err != nil {
		return domain.Order{}, err
	}

	customer, err := s.customers.FindByPhone(ctx, req.CustomerPhone)
	if err != nil {
		return domain.Order{}, err
	}

	var employeeID snowflake.ID
	if strings.TrimSpace(req.EmployeeID) != "" {
		employeeID, err = s.parseID(req.EmployeeID)
		if err != nil {
			return domain.Order{}, err
		}
	}

	// The redis lock only narrows the race window across processes; the
	// row lock inside the transaction is what actually enforces one open
	// order per table.
	lockKey := fmt.Sprintf("tabletab:table:%d:open", tableID)
	token, acquired, err := s.locker.TryLock(ctx, lockKey, tableOpenLockTTL)
	if err != nil {
		return domain.Order{}, err
	}
	if !acquired {
		return domain.Order{}, tabledomain.ErrTableBusy
	}
	defer func() {
		if releaseErr := s.locker.Release(ctx, lockKey, token); releaseErr != nil {
			s.log.Warn("release table open lock", zap.String("key", lockKey), zap.Error(releaseErr))
		}
	}()

	now := s.clock.Now()
	order := domain.Order{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		TableID:      tableID,
		CustomerID:   customer.ID,
		EmployeeID:   employeeID,
		OpenedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		table, err := s.tableRepo.FindByIDForUpdate(ctx, tx, tableID)
		if err != nil {
			return err
		}
		if table == nil || table.RestaurantID != restaurantID {
			return tabledomain.ErrNotFound
		}
		if table.CurrentOrderID != nil {
			return tabledomain.ErrTableBusy
		}

		if err := s.repo.Insert(ctx, tx, &order); err != nil {
			return err
		}
		return s.tableRepo.SetCurrentOrder(ctx, tx, tableID, &order.ID)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.metrics.OrderOpened()
	s.log.Info("order opened",
		zap.String("order_id", order.ID.String()),
		zap.String("table_id", tableID.String()),
		zap.String("customer_id", customer.ID.String()),
	)
	return order, nil
}

func (s *Service) AddLines(ctx context.Context, req domain.AddLinesRequest) ([]domain.OrderLine, error) {
	orderID, err := s.parseID(req.OrderID)
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, domain.ErrInvalidLine
	}

	var inserted []domain.OrderLine
	err = s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		settled, err := s.repo.HasBill(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if settled {
			return domain.ErrSettled
		}

		now := s.clock.Now()
		lines := make([]*domain.OrderLine, 0, len(req.Lines))
		for _, input := range req.Lines {
			line, err := s.buildLine(ctx, order, input, now)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		if err := s.repo.InsertLines(ctx, tx, lines); err != nil {
			return err
		}
		inserted = make([]domain.OrderLine, 0, len(lines))
		for _, line := range lines {
			inserted = append(inserted, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LinesAdded(len(inserted))
	return inserted, nil
}

func (s *Service) buildLine(ctx context.Context, order *domain.Order, input domain.LineInput, now time.Time) (*domain.OrderLine, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidLine
	}

	dishID, err := s.parseOptionalID(input.DishID)
	if err != nil {
		return nil, domain.ErrInvalidLine
	}
	comboID, err := s.parseOptionalID(input.ComboID)
	if err != nil {
		return nil, domain.ErrInvalidLine
	}

	item, err := s.catalog.Resolve(ctx, order.RestaurantID, dishID, comboID)
	if err != nil {
		return nil, err
	}

	return &domain.OrderLine{
		ID:        s.genID.Generate(),
		OrderID:   order.ID,
		DishID:    dishID,
		ComboID:   comboID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  input.Quantity,
		Status:    domain.LineStatusWaiting,
		CreatedAt: now,
	}, nil
}

func (s *Service) View(ctx context.Context, orderID string) (domain.OrderView, error) {
	parsed, err := s.parseID(orderID)
	if err != nil {
		return domain.OrderView{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.OrderView{}, err
	}
	if order == nil {
		return domain.OrderView{}, domain.ErrNotFound
	}

	items, err := s.repo.LinesByOrder(ctx, s.db, parsed)
	if err != nil {
		return domain.OrderView{}, err
	}
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		lines = append(lines, *item)
	}

	restaurant, err := s.restaurants.GetByID(ctx, order.RestaurantID.String())
	if err != nil {
		return domain.OrderView{}, err
	}

	return domain.OrderView{
		Order:      *order,
		Lines:      lines,
		TotalMoney: domain.TotalMoney(lines, restaurant.VATEnabled, restaurant.VATRate),
		TotalDish:  domain.TotalDish(lines),
	}, nil
}

func (s *Service) FindByTable(ctx context.Context, tableID string) (*domain.Order, error) {
	parsed, err := s.parseID(tableID)
	if err != nil {
		return nil, err
	}

	table, err := s.tableRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, tabledomain.ErrNotFound
	}
	return s.repo.FindOpenByTable(ctx, s.db, parsed)
}

func (s *Service) AdvanceLine(ctx context.Context, lineID string, status domain.LineStatus) (domain.OrderLine, error) {
	parsed, err := s.parseID(lineID)
	if err != nil {
		return domain.OrderLine{}, err
	}

	var updated domain.OrderLine
	err = s.db.Transaction(func(tx *gorm.DB) error {
		line, err := s.repo.FindLineByIDForUpdate(ctx, tx, parsed)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		if !validTransition(line.Status, status) {
			return domain.ErrInvalidStatus
		}

		if err := s.repo.UpdateLineStatus(ctx, tx, parsed, status); err != nil {
			return err
		}
		line.Status = status
		updated = *line
		return nil
	})
	if err != nil {
		return domain.OrderLine{}, err
	}
	return updated, nil
}

func validTransition(from, to domain.LineStatus) bool {
	switch from {
	case domain.LineStatusWaiting:
		return to == domain.LineStatusPrepare || to == domain.LineStatusDecline
	case domain.LineStatusPrepare:
		return to == domain.LineStatusDone || to == domain.LineStatusDecline
	}
	return false
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) parseOptionalID(value string) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	return &id, nil
}
