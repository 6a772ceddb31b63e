package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	"github.com/tabletab/tabletab/internal/table/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("table.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTableRequest) (domain.Table, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Table{}, domain.ErrInvalidRestaurant
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return domain.Table{}, domain.ErrInvalidLabel
	}

	now := s.clock.Now()
	table := domain.Table{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		Label:        label,
		Capacity:     req.Capacity,
		Position:     strings.TrimSpace(req.Position),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &table); err != nil {
		return domain.Table{}, err
	}
	return table, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Table, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return nil, domain.ErrInvalidRestaurant
	}

	items, err := s.repo.List(ctx, s.db, restaurantID)
	if err != nil {
		return nil, err
	}

	tables := make([]domain.Table, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		tables = append(tables, *item)
	}
	return tables, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Table, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Table{}, domain.ErrInvalidRestaurant
	}

	parsed, err := s.parseID(id)
	if err != nil {
		return domain.Table{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Table{}, err
	}
	// Another restaurant's table is indistinguishable from a missing one.
	if item == nil || item.RestaurantID != restaurantID {
		return domain.Table{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) CurrentOrder(ctx context.Context, id string) (*snowflake.ID, error) {
	table, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return table.CurrentOrderID, nil
}

func (s *Service) Release(ctx context.Context, id string) error {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.ErrInvalidRestaurant
	}

	parsed, err := s.parseID(id)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if item == nil || item.RestaurantID != restaurantID {
		return domain.ErrNotFound
	}

	return s.repo.SetCurrentOrder(ctx, s.db, parsed, nil)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
