package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`INSERT INTO bills (id, order_id, restaurant_id, total, point_used, point_earned, payment_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (order_id) DO NOTHING`,
		bill.ID,
		bill.OrderID,
		bill.RestaurantID,
		bill.Total,
		bill.PointUsed,
		bill.PointEarned,
		bill.PaymentMethod,
		bill.CreatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, restaurant_id, total, point_used, point_earned, payment_method, created_at
		 FROM bills WHERE id = ?`,
		id,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) FindByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).Raw(
		`SELECT id, order_id, restaurant_id, total, point_used, point_earned, payment_method, created_at
		 FROM bills WHERE order_id = ?`,
		orderID,
	).Scan(&bill).Error
	if err != nil {
		return nil, err
	}
	if bill.ID == 0 {
		return nil, nil
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	err := db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, from, to).
		Order("created_at asc, id asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}
