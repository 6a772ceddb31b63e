package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/config"
	"github.com/tabletab/tabletab/internal/restaurant/domain"
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
	POS   *config.POSConfigHolder
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	pos   *config.POSConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("restaurant.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		pos:   p.POS,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Restaurant{}, domain.ErrInvalidName
	}

	methods := req.PaymentMethods
	if len(methods) == 0 {
		methods = []string{"cash"}
	}

	policy := s.pos.Current()
	now := s.clock.Now()
	restaurant := domain.Restaurant{
		ID:             s.genID.Generate(),
		Name:           name,
		Slug:           slug.Make(name),
		Address:        strings.TrimSpace(req.Address),
		Phone:          strings.TrimSpace(req.Phone),
		MoneyToPoint:   policy.DefaultMoneyToPoint,
		PointToMoney:   policy.DefaultPointToMoney,
		VATEnabled:     policy.DefaultVATEnabled,
		VATRate:        policy.DefaultVATRate,
		PaymentMethods: methods,
		Metadata:       datatypes.JSONMap{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &restaurant); err != nil {
		return domain.Restaurant{}, err
	}

	s.log.Info("restaurant created",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("slug", restaurant.Slug),
	)

	return restaurant, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Restaurant, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Restaurant{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if item == nil {
		return domain.Restaurant{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Restaurant, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	restaurants := make([]domain.Restaurant, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		restaurants = append(restaurants, *item)
	}
	return restaurants, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Restaurant, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || parsed == 0 {
		return domain.Restaurant{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if item == nil {
		return domain.Restaurant{}, domain.ErrNotFound
	}

	if req.MoneyToPoint != nil {
		if *req.MoneyToPoint <= 0 {
			return domain.Restaurant{}, domain.ErrInvalidLoyalty
		}
		item.MoneyToPoint = *req.MoneyToPoint
	}
	if req.PointToMoney != nil {
		if *req.PointToMoney < 0 {
			return domain.Restaurant{}, domain.ErrInvalidLoyalty
		}
		item.PointToMoney = *req.PointToMoney
	}
	if req.VATEnabled != nil {
		item.VATEnabled = *req.VATEnabled
	}
	if req.VATRate != nil {
		if *req.VATRate < 0 || *req.VATRate > 100 {
			return domain.Restaurant{}, domain.ErrInvalidVATRate
		}
		item.VATRate = *req.VATRate
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateSettings(ctx, s.db, item); err != nil {
		return domain.Restaurant{}, err
	}

	return *item, nil
}
