package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/catalog/domain"
	"github.com/tabletab/tabletab/internal/catalog/repository"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/restaurantctx"
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
	Repo  repository.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  repository.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Resolve prices an order line from a dish XOR a combo.
func (s *Service) Resolve(ctx context.Context, restaurantID snowflake.ID, dishID, comboID *snowflake.ID) (domain.Item, error) {
	if (dishID == nil) == (comboID == nil) {
		return domain.Item{}, domain.ErrInvalidLine
	}

	if dishID != nil {
		dish, err := s.repo.FindDish(ctx, s.db, restaurantID, *dishID)
		if err != nil {
			return domain.Item{}, err
		}
		if dish == nil {
			return domain.Item{}, domain.ErrDishNotFound
		}
		return domain.Item{Name: dish.Name, UnitPrice: dish.Price}, nil
	}

	combo, err := s.repo.FindCombo(ctx, s.db, restaurantID, *comboID)
	if err != nil {
		return domain.Item{}, err
	}
	if combo == nil {
		return domain.Item{}, domain.ErrComboNotFound
	}
	return domain.Item{Name: combo.Name, UnitPrice: combo.Price}, nil
}

func (s *Service) CreateDish(ctx context.Context, req domain.CreateDishRequest) (domain.Dish, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Dish{}, domain.ErrInvalidRestaurant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Dish{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Dish{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	dish := domain.Dish{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        req.Price,
		Available:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertDish(ctx, s.db, &dish); err != nil {
		return domain.Dish{}, err
	}
	return dish, nil
}

func (s *Service) CreateCombo(ctx context.Context, req domain.CreateComboRequest) (domain.Combo, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return domain.Combo{}, domain.ErrInvalidRestaurant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Combo{}, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return domain.Combo{}, domain.ErrInvalidPrice
	}

	now := s.clock.Now()
	combo := domain.Combo{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        req.Price,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertCombo(ctx, s.db, &combo); err != nil {
		return domain.Combo{}, err
	}
	return combo, nil
}

func (s *Service) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return nil, domain.ErrInvalidRestaurant
	}

	items, err := s.repo.ListDishes(ctx, s.db, restaurantID)
	if err != nil {
		return nil, err
	}
	dishes := make([]domain.Dish, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		dishes = append(dishes, *item)
	}
	return dishes, nil
}

func (s *Service) ListCombos(ctx context.Context) ([]domain.Combo, error) {
	restaurantID, ok := restaurantctx.RestaurantIDFromContext(ctx)
	if !ok || restaurantID == 0 {
		return nil, domain.ErrInvalidRestaurant
	}

	items, err := s.repo.ListCombos(ctx, s.db, restaurantID)
	if err != nil {
		return nil, err
	}
	combos := make([]domain.Combo, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		combos = append(combos, *item)
	}
	return combos, nil
}
