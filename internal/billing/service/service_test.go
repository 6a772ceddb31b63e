package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabletab/tabletab/internal/billing/domain"
	"github.com/tabletab/tabletab/internal/billing/repository"
	"github.com/tabletab/tabletab/internal/clock"
	customerdomain "github.com/tabletab/tabletab/internal/customer/domain"
	customerrepo "github.com/tabletab/tabletab/internal/customer/repository"
	customerservice "github.com/tabletab/tabletab/internal/customer/service"
	orderdomain "github.com/tabletab/tabletab/internal/order/domain"
	orderrepo "github.com/tabletab/tabletab/internal/order/repository"
	"github.com/tabletab/tabletab/internal/providers/pdf"
	restaurantrepo "github.com/tabletab/tabletab/internal/restaurant/repository"
	restaurantservice "github.com/tabletab/tabletab/internal/restaurant/service"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	tablerepo "github.com/tabletab/tabletab/internal/table/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	svc          *Service
	node         *snowflake.Node
	clk          *clock.FakeClock
	restaurantID snowflake.ID
	tableID      snowflake.ID
	customerID   snowflake.ID
	orderID      snowflake.ID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// SQLite support hack: remove FOR UPDATE clauses
	strip := func(d *gorm.DB) {
		sql := d.Statement.SQL.String()
		if strings.Contains(sql, "FOR UPDATE") {
			newSQL := strings.ReplaceAll(sql, "FOR UPDATE", "")
			d.Statement.SQL.Reset()
			d.Statement.SQL.WriteString(newSQL)
		}
	}
	db.Callback().Query().Before("gorm:query").Register("sqlite_skip_locked", strip)
	db.Callback().Row().Before("gorm:row").Register("sqlite_skip_locked_row", strip)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range []string{
		`CREATE TABLE restaurants (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			money_to_point INTEGER NOT NULL,
			point_to_money INTEGER NOT NULL,
			vat_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			vat_rate REAL NOT NULL DEFAULT 0,
			payment_methods TEXT NOT NULL DEFAULT '{}',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE tables (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			label TEXT NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 0,
			position TEXT NOT NULL DEFAULT '',
			current_order_id INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			phone TEXT NOT NULL,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			current_point INTEGER NOT NULL DEFAULT 0,
			total_point INTEGER NOT NULL DEFAULT 0,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			table_id INTEGER NOT NULL,
			customer_id INTEGER NOT NULL,
			employee_id INTEGER NOT NULL DEFAULT 0,
			opened_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE order_lines (
			id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL,
			dish_id INTEGER,
			combo_id INTEGER,
			name TEXT NOT NULL,
			unit_price INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'waiting',
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE bills (
			id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL UNIQUE,
			restaurant_id INTEGER NOT NULL,
			total INTEGER NOT NULL,
			point_used INTEGER NOT NULL DEFAULT 0,
			point_earned INTEGER NOT NULL DEFAULT 0,
			payment_method TEXT NOT NULL DEFAULT 'cash',
			created_at DATETIME NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC))

	customers := customerservice.New(customerservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  customerrepo.Provide(),
	})
	restaurants := restaurantservice.New(restaurantservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  restaurantrepo.Provide(),
	})

	svc := &Service{
		db:          db,
		log:         log,
		genID:       node,
		clock:       clk,
		repo:        repository.Provide(),
		orderRepo:   orderrepo.Provide(),
		tableRepo:   tablerepo.Provide(),
		customers:   customers,
		restaurants: restaurants,
		pdf:         &pdf.NoOpProvider{},
	}

	f := &fixture{
		db:           db,
		svc:          svc,
		node:         node,
		clk:          clk,
		restaurantID: node.Generate(),
		tableID:      node.Generate(),
		customerID:   node.Generate(),
		orderID:      node.Generate(),
	}

	now := clk.Now()
	require.NoError(t, db.Exec(
		`INSERT INTO restaurants (id, name, slug, money_to_point, point_to_money, vat_enabled, vat_rate, payment_methods, metadata, created_at, updated_at)
		 VALUES (?, 'Main', 'main', 100000, 1000, FALSE, 0, '{cash,card}', '{}', ?, ?)`,
		f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, restaurant_id, phone, name, created_at, updated_at) VALUES (?, ?, '0812000111', 'Alice', ?, ?)`,
		f.customerID, f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO tables (id, restaurant_id, label, capacity, current_order_id, created_at, updated_at) VALUES (?, ?, 'T1', 4, ?, ?, ?)`,
		f.tableID, f.restaurantID, f.orderID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO orders (id, restaurant_id, table_id, customer_id, opened_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.orderID, f.restaurantID, f.tableID, f.customerID, now, now, now,
	).Error)

	return f
}

func (f *fixture) ctx() context.Context {
	return restaurantctx.WithRestaurantID(context.Background(), f.restaurantID)
}

func (f *fixture) addLine(t *testing.T, unitPrice, quantity int64, status string) {
	t.Helper()
	require.NoError(t, f.db.Exec(
		`INSERT INTO order_lines (id, order_id, name, unit_price, quantity, status, created_at) VALUES (?, ?, 'Pho Bo', ?, ?, ?, ?)`,
		f.node.Generate(), f.orderID, unitPrice, quantity, status, f.clk.Now(),
	).Error)
}

func (f *fixture) customerPoints(t *testing.T) (current, total int64) {
	t.Helper()
	var row struct {
		CurrentPoint int64
		TotalPoint   int64
	}
	require.NoError(t, f.db.Raw(`SELECT current_point, total_point FROM customers WHERE id = ?`, f.customerID).Scan(&row).Error)
	return row.CurrentPoint, row.TotalPoint
}

func (f *fixture) tableOccupied(t *testing.T) bool {
	t.Helper()
	var current *int64
	require.NoError(t, f.db.Raw(`SELECT current_order_id FROM tables WHERE id = ?`, f.tableID).Scan(&current).Error)
	return current != nil
}

func TestSettleEarnsPointsAndReleasesTable(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")

	bill, err := f.svc.Settle(f.ctx(), domain.SettleRequest{
		OrderID:       f.orderID.String(),
		Points:        0,
		Total:         100000,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), bill.Total)
	assert.Equal(t, int64(0), bill.PointUsed)
	assert.Equal(t, int64(1), bill.PointEarned)
	assert.Equal(t, "cash", bill.PaymentMethod)
	assert.Equal(t, f.clk.Now(), bill.CreatedAt)

	current, total := f.customerPoints(t)
	assert.Equal(t, int64(1), current)
	assert.Equal(t, int64(1), total)
	assert.False(t, f.tableOccupied(t))
}

func TestSettleRecomputesTotalFromLines(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")
	f.addLine(t, 30000, 1, "decline")

	// The client-declared total is ignored in favor of the line snapshot.
	bill, err := f.svc.Settle(f.ctx(), domain.SettleRequest{
		OrderID: f.orderID.String(),
		Total:   999999,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), bill.Total)
	assert.Equal(t, int64(1), bill.PointEarned)
}

func TestSettleWithVAT(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Exec(
		`UPDATE restaurants SET vat_enabled = TRUE, vat_rate = 10 WHERE id = ?`, f.restaurantID,
	).Error)
	f.addLine(t, 50000, 2, "done")

	bill, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(110000), bill.Total)
}

func TestSettleRedeemsPoints(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")
	require.NoError(t, f.db.Exec(`UPDATE customers SET current_point = 5, total_point = 8 WHERE id = ?`, f.customerID).Error)

	bill, err := f.svc.Settle(f.ctx(), domain.SettleRequest{
		OrderID: f.orderID.String(),
		Points:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), bill.PointUsed)
	assert.Equal(t, int64(0), bill.PointEarned)

	current, total := f.customerPoints(t)
	assert.Equal(t, int64(2), current)
	assert.Equal(t, int64(8), total)
	assert.False(t, f.tableOccupied(t))
}

func TestSettleRedeemExceedingBalanceRollsBack(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")
	require.NoError(t, f.db.Exec(`UPDATE customers SET current_point = 5 WHERE id = ?`, f.customerID).Error)

	_, err := f.svc.Settle(f.ctx(), domain.SettleRequest{
		OrderID: f.orderID.String(),
		Points:  6,
	})
	assert.ErrorIs(t, err, customerdomain.ErrPointInvalid)

	// Nothing moved: no bill, balance intact, table still occupied.
	var billCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM bills WHERE order_id = ?`, f.orderID).Scan(&billCount).Error)
	assert.Equal(t, int64(0), billCount)

	current, _ := f.customerPoints(t)
	assert.Equal(t, int64(5), current)
	assert.True(t, f.tableOccupied(t))
}

func TestSettleTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")

	_, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	require.NoError(t, err)

	_, err = f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	assert.ErrorIs(t, err, orderdomain.ErrSettled)

	var billCount int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM bills WHERE order_id = ?`, f.orderID).Scan(&billCount).Error)
	assert.Equal(t, int64(1), billCount)
}

func TestSettleUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.node.Generate().String()})
	assert.ErrorIs(t, err, orderdomain.ErrNotFound)
}

func TestSettleRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 2, "done")

	_, err := f.svc.Settle(f.ctx(), domain.SettleRequest{
		OrderID:       f.orderID.String(),
		PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)
	assert.True(t, f.tableOccupied(t))
}

func TestGetBillByOrder(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 1, "done")

	settled, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	require.NoError(t, err)

	bill, err := f.svc.GetBillByOrder(f.ctx(), f.orderID.String())
	require.NoError(t, err)
	assert.Equal(t, settled.ID, bill.ID)

	byID, err := f.svc.GetBill(f.ctx(), settled.ID.String())
	require.NoError(t, err)
	assert.Equal(t, settled.ID, byID.ID)

	_, err = f.svc.GetBill(f.ctx(), f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRevenueReport(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Exec(
		`UPDATE restaurants SET vat_enabled = TRUE, vat_rate = 10 WHERE id = ?`, f.restaurantID,
	).Error)
	f.addLine(t, 100000, 1, "done")

	bill, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(110000), bill.Total)

	from := f.clk.Now().Add(-24 * time.Hour)
	to := f.clk.Now().Add(24 * time.Hour)
	report, err := f.svc.Revenue(f.ctx(), from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(110000), report.Total)
	// 110000 * 10 / 110 = 10000
	assert.Equal(t, int64(10000), report.VATPortion)
	require.Len(t, report.Days, 1)
	assert.Equal(t, "2024-06-01", report.Days[0].Date)
	assert.Equal(t, int64(110000), report.Days[0].Total)
	assert.Equal(t, int64(1), report.Days[0].Bills)

	// Range outside the settlement day is empty.
	empty, err := f.svc.Revenue(f.ctx(), from.Add(-72*time.Hour), from)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.Days)
}

func TestListBillsRange(t *testing.T) {
	f := newFixture(t)
	f.addLine(t, 50000, 1, "done")

	_, err := f.svc.Settle(f.ctx(), domain.SettleRequest{OrderID: f.orderID.String()})
	require.NoError(t, err)

	bills, err := f.svc.ListBills(f.ctx(), f.clk.Now().Add(-time.Hour), f.clk.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, bills, 1)

	_, err = f.svc.ListBills(f.ctx(), f.clk.Now(), f.clk.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}
