package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/customer/domain"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	"github.com/tabletab/tabletab/pkg/db"
	"github.com/tabletab/tabletab/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Customer{}, domain.ErrInvalidRestaurant
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		Phone:        phone,
		Name:         name,
		Address:      strings.TrimSpace(req.Address),
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrPhoneExists
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Customer{}, domain.ErrInvalidRestaurant
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	item, err := s.repo.FindByPhone(ctx, s.db, restaurantID, phone)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) ([]domain.Customer, *pagination.PageInfo, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return nil, nil, domain.ErrInvalidRestaurant
	}

	items, err := s.repo.List(ctx, s.db, restaurantID, page)
	if err != nil {
		return nil, nil, err
	}

	size := page.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}

	// Snowflake ids are time ordered, so the id alone is a stable cursor
	// for the created_at ordering.
	info := pagination.BuildCursorPageInfo(items, int32(size), func(c *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: c.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if len(items) > size {
		items = items[:size]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}
	return customers, info, nil
}

func (s *Service) ApplyRedeem(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, points int64) (domain.Customer, error) {
	if points <= 0 {
		return domain.Customer{}, domain.ErrInvalidPoints
	}

	customer, err := s.lockCustomer(ctx, tx, customerID)
	if err != nil {
		return domain.Customer{}, err
	}

	remaining := customer.CurrentPoint - points
	if remaining < 0 {
		s.log.Warn("redeem exceeds balance",
			zap.String("customer_id", customerID.String()),
			zap.Int64("current_point", customer.CurrentPoint),
			zap.Int64("points", points),
		)
		return domain.Customer{}, domain.ErrPointInvalid
	}

	if err := s.repo.UpdatePoints(ctx, tx, customerID, remaining, customer.TotalPoint); err != nil {
		return domain.Customer{}, err
	}

	customer.CurrentPoint = remaining
	return *customer, nil
}

func (s *Service) ApplyEarn(ctx context.Context, tx *gorm.DB, customerID snowflake.ID, amountPaid, moneyToPoint int64) (domain.Customer, int64, error) {
	if moneyToPoint <= 0 {
		return domain.Customer{}, 0, domain.ErrInvalidPoints
	}
	if amountPaid < 0 {
		return domain.Customer{}, 0, domain.ErrInvalidPoints
	}

	customer, err := s.lockCustomer(ctx, tx, customerID)
	if err != nil {
		return domain.Customer{}, 0, err
	}

	earned := amountPaid / moneyToPoint
	if earned == 0 {
		return *customer, 0, nil
	}

	current := customer.CurrentPoint + earned
	total := customer.TotalPoint + earned
	if err := s.repo.UpdatePoints(ctx, tx, customerID, current, total); err != nil {
		return domain.Customer{}, 0, err
	}

	customer.CurrentPoint = current
	customer.TotalPoint = total
	return *customer, earned, nil
}

func (s *Service) lockCustomer(ctx context.Context, tx *gorm.DB, customerID snowflake.ID) (*domain.Customer, error) {
	customer, err := s.repo.FindByIDForUpdate(ctx, tx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
