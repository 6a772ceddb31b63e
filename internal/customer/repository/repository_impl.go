package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/customer/domain"
	"github.com/tabletab/tabletab/pkg/db/option"
	"github.com/tabletab/tabletab/pkg/db/pagination"
	store "github.com/tabletab/tabletab/pkg/repository"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, restaurant_id, phone, name, address, current_point, total_point, metadata, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.RestaurantID,
		customer.Phone,
		customer.Name,
		customer.Address,
		customer.CurrentPoint,
		customer.TotalPoint,
		customer.Metadata,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, phone, name, address, current_point, total_point, metadata, created_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := tx.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, phone, name, address, current_point, total_point, metadata, created_at, updated_at
		 FROM customers
		 WHERE id = ?
		 FOR UPDATE`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByPhone(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, phone string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, phone, name, address, current_point, total_point, metadata, created_at, updated_at
		 FROM customers WHERE restaurant_id = ? AND phone = ?`,
		restaurantID,
		phone,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) UpdatePoints(ctx context.Context, db *gorm.DB, id snowflake.ID, currentPoint, totalPoint int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET current_point = ?, total_point = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		currentPoint,
		totalPoint,
		id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, page pagination.Pagination) ([]*domain.Customer, error) {
	return store.ProvideStore[domain.Customer](db).Find(ctx, &domain.Customer{RestaurantID: restaurantID},
		option.WithSortBy(option.QuerySortBy{
			Allow: map[string]bool{"created_at": true},
			Field: "created_at",
			Desc:  true,
		}),
		option.ApplyPagination(page),
	)
}
