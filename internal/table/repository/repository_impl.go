package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/table/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, table *domain.Table) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tables (id, restaurant_id, label, capacity, position, current_order_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		table.ID,
		table.RestaurantID,
		table.Label,
		table.Capacity,
		table.Position,
		table.CurrentOrderID,
		table.CreatedAt,
		table.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Table, error) {
	var table domain.Table
	err := db.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, label, capacity, position, current_order_id, created_at, updated_at
		 FROM tables WHERE id = ?`,
		id,
	).Scan(&table).Error
	if err != nil {
		return nil, err
	}
	if table.ID == 0 {
		return nil, nil
	}
	return &table, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Table, error) {
	var table domain.Table
	err := tx.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, label, capacity, position, current_order_id, created_at, updated_at
		 FROM tables
		 WHERE id = ?
		 FOR UPDATE`,
		id,
	).Scan(&table).Error
	if err != nil {
		return nil, err
	}
	if table.ID == 0 {
		return nil, nil
	}
	return &table, nil
}

func (r *repo) SetCurrentOrder(ctx context.Context, db *gorm.DB, tableID snowflake.ID, orderID *snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tables SET current_order_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		orderID,
		tableID,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Table, error) {
	var tables []*domain.Table
	err := db.WithContext(ctx).
		Model(&domain.Table{}).
		Where("restaurant_id = ?", restaurantID).
		Order("label asc, id asc").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}
