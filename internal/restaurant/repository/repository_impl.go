package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/restaurant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, restaurant *domain.Restaurant) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO restaurants (id, name, slug, address, phone, money_to_point, point_to_money,
		 vat_enabled, vat_rate, payment_methods, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		restaurant.ID,
		restaurant.Name,
		restaurant.Slug,
		restaurant.Address,
		restaurant.Phone,
		restaurant.MoneyToPoint,
		restaurant.PointToMoney,
		restaurant.VATEnabled,
		restaurant.VATRate,
		restaurant.PaymentMethods,
		restaurant.Metadata,
		restaurant.CreatedAt,
		restaurant.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, address, phone, money_to_point, point_to_money,
		 vat_enabled, vat_rate, payment_methods, metadata, created_at, updated_at
		 FROM restaurants WHERE id = ?`,
		id,
	).Scan(&restaurant).Error
	if err != nil {
		return nil, err
	}
	if restaurant.ID == 0 {
		return nil, nil
	}
	return &restaurant, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Restaurant, error) {
	var restaurants []*domain.Restaurant
	err := db.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Order("created_at desc, id desc").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *repo) UpdateSettings(ctx context.Context, db *gorm.DB, restaurant *domain.Restaurant) error {
	return db.WithContext(ctx).Exec(
		`UPDATE restaurants
		 SET money_to_point = ?, point_to_money = ?, vat_enabled = ?, vat_rate = ?, updated_at = ?
		 WHERE id = ?`,
		restaurant.MoneyToPoint,
		restaurant.PointToMoney,
		restaurant.VATEnabled,
		restaurant.VATRate,
		restaurant.UpdatedAt,
		restaurant.ID,
	).Error
}
