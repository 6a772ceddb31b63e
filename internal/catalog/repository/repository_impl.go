package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/catalog/domain"
	"github.com/tabletab/tabletab/pkg/db/option"
	store "github.com/tabletab/tabletab/pkg/repository"
	"gorm.io/gorm"
)

type Repository interface {
	FindDish(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*domain.Dish, error)
	FindCombo(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*domain.Combo, error)
	InsertDish(ctx context.Context, db *gorm.DB, dish *domain.Dish) error
	InsertCombo(ctx context.Context, db *gorm.DB, combo *domain.Combo) error
	ListDishes(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Dish, error)
	ListCombos(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Combo, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

// The catalog has no compound invariants, so it rides the generic store
// instead of hand-written SQL.
var nameSort = option.QuerySortBy{
	Allow: map[string]bool{"name": true},
	Field: "name",
}

func (r *repo) FindDish(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*domain.Dish, error) {
	return store.ProvideStore[domain.Dish](db).FindOne(ctx, &domain.Dish{ID: id, RestaurantID: restaurantID})
}

func (r *repo) FindCombo(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*domain.Combo, error) {
	return store.ProvideStore[domain.Combo](db).FindOne(ctx, &domain.Combo{ID: id, RestaurantID: restaurantID})
}

func (r *repo) InsertDish(ctx context.Context, db *gorm.DB, dish *domain.Dish) error {
	return store.ProvideStore[domain.Dish](db).Create(ctx, dish)
}

func (r *repo) InsertCombo(ctx context.Context, db *gorm.DB, combo *domain.Combo) error {
	return store.ProvideStore[domain.Combo](db).Create(ctx, combo)
}

func (r *repo) ListDishes(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Dish, error) {
	return store.ProvideStore[domain.Dish](db).Find(ctx, &domain.Dish{RestaurantID: restaurantID}, option.WithSortBy(nameSort))
}

func (r *repo) ListCombos(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Combo, error) {
	return store.ProvideStore[domain.Combo](db).Find(ctx, &domain.Combo{RestaurantID: restaurantID}, option.WithSortBy(nameSort))
}
