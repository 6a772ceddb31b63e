package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tabletab/tabletab/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, restaurant_id, table_id, customer_id, employee_id, opened_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.RestaurantID,
		order.TableID,
		order.CustomerID,
		order.EmployeeID,
		order.OpenedAt,
		order.CreatedAt,
		order.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, table_id, customer_id, employee_id, opened_at, created_at, updated_at
		 FROM orders WHERE id = ?`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := tx.WithContext(ctx).Raw(
		`SELECT id, restaurant_id, table_id, customer_id, employee_id, opened_at, created_at, updated_at
		 FROM orders
		 WHERE id = ?
		 FOR UPDATE`,
		id,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) FindOpenByTable(ctx context.Context, db *gorm.DB, tableID snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).Raw(
		`SELECT o.id, o.restaurant_id, o.table_id, o.customer_id, o.employee_id, o.opened_at, o.created_at, o.updated_at
		 FROM orders o
		 JOIN tables t ON t.current_order_id = o.id
		 WHERE t.id = ?`,
		tableID,
	).Scan(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []*domain.OrderLine) error {
	for _, line := range lines {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO order_lines (id, order_id, dish_id, combo_id, name, unit_price, quantity, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID,
			line.OrderID,
			line.DishID,
			line.ComboID,
			line.Name,
			line.UnitPrice,
			line.Quantity,
			line.Status,
			line.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) LinesByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]*domain.OrderLine, error) {
	var lines []*domain.OrderLine
	err := db.WithContext(ctx).
		Model(&domain.OrderLine{}).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repo) FindLineByIDForUpdate(ctx context.Context, tx *gorm.DB, lineID snowflake.ID) (*domain.OrderLine, error) {
	var line domain.OrderLine
	err := tx.WithContext(ctx).Raw(
		`SELECT id, order_id, dish_id, combo_id, name, unit_price, quantity, status, created_at
		 FROM order_lines
		 WHERE id = ?
		 FOR UPDATE`,
		lineID,
	).Scan(&line).Error
	if err != nil {
		return nil, err
	}
	if line.ID == 0 {
		return nil, nil
	}
	return &line, nil
}

func (r *repo) UpdateLineStatus(ctx context.Context, db *gorm.DB, lineID snowflake.ID, status domain.LineStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE order_lines SET status = ? WHERE id = ?`,
		status,
		lineID,
	).Error
}

func (r *repo) HasBill(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bills WHERE order_id = ?`,
		orderID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
