package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogrepo "github.com/tabletab/tabletab/internal/catalog/repository"
	catalogservice "github.com/tabletab/tabletab/internal/catalog/service"
	"github.com/tabletab/tabletab/internal/clock"
	customerrepo "github.com/tabletab/tabletab/internal/customer/repository"
	customerservice "github.com/tabletab/tabletab/internal/customer/service"
	"github.com/tabletab/tabletab/internal/order/domain"
	"github.com/tabletab/tabletab/internal/order/repository"
	restaurantrepo "github.com/tabletab/tabletab/internal/restaurant/repository"
	restaurantservice "github.com/tabletab/tabletab/internal/restaurant/service"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	tabledomain "github.com/tabletab/tabletab/internal/table/domain"
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
	dishID       snowflake.ID
	comboID      snowflake.ID
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
		`CREATE TABLE dishes (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			price INTEGER NOT NULL,
			available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE combos (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			price INTEGER NOT NULL,
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
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC))

	customers := customerservice.New(customerservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  customerrepo.Provide(),
	})
	catalog := catalogservice.New(catalogservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Repo:  catalogrepo.Provide(),
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
		tableRepo:   tablerepo.Provide(),
		customers:   customers,
		catalog:     catalog,
		restaurants: restaurants,
	}

	f := &fixture{
		db:           db,
		svc:          svc,
		node:         node,
		clk:          clk,
		restaurantID: node.Generate(),
		tableID:      node.Generate(),
		customerID:   node.Generate(),
		dishID:       node.Generate(),
		comboID:      node.Generate(),
	}

	now := clk.Now()
	require.NoError(t, db.Exec(
		`INSERT INTO restaurants (id, name, slug, money_to_point, point_to_money, vat_enabled, vat_rate, payment_methods, metadata, created_at, updated_at)
		 VALUES (?, 'Main', 'main', 100000, 1000, FALSE, 0, '{cash,card}', '{}', ?, ?)`,
		f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO tables (id, restaurant_id, label, capacity, created_at, updated_at) VALUES (?, ?, 'T1', 4, ?, ?)`,
		f.tableID, f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO customers (id, restaurant_id, phone, name, created_at, updated_at) VALUES (?, ?, '0812000111', 'Alice', ?, ?)`,
		f.customerID, f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO dishes (id, restaurant_id, name, price, created_at, updated_at) VALUES (?, ?, 'Pho Bo', 50000, ?, ?)`,
		f.dishID, f.restaurantID, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO combos (id, restaurant_id, name, price, created_at, updated_at) VALUES (?, ?, 'Family Set', 200000, ?, ?)`,
		f.comboID, f.restaurantID, now, now,
	).Error)

	return f
}

func (f *fixture) ctx() context.Context {
	return restaurantctx.WithRestaurantID(context.Background(), f.restaurantID)
}

func (f *fixture) openOrder(t *testing.T) domain.Order {
	t.Helper()
	order, err := f.svc.Open(f.ctx(), domain.OpenOrderRequest{
		TableID:       f.tableID.String(),
		CustomerPhone: "0812000111",
	})
	require.NoError(t, err)
	return order
}

func TestOpenOrderOccupiesTable(t *testing.T) {
	f := newFixture(t)

	order := f.openOrder(t)
	assert.Equal(t, f.tableID, order.TableID)
	assert.Equal(t, f.customerID, order.CustomerID)
	assert.Equal(t, f.clk.Now(), order.OpenedAt)

	var currentOrderID int64
	require.NoError(t, f.db.Raw(`SELECT current_order_id FROM tables WHERE id = ?`, f.tableID).Scan(&currentOrderID).Error)
	assert.Equal(t, order.ID.Int64(), currentOrderID)
}

func TestOpenOrderOnBusyTable(t *testing.T) {
	f := newFixture(t)

	first := f.openOrder(t)

	_, err := f.svc.Open(f.ctx(), domain.OpenOrderRequest{
		TableID:       f.tableID.String(),
		CustomerPhone: "0812000111",
	})
	assert.ErrorIs(t, err, tabledomain.ErrTableBusy)

	// The table still references the only successful order.
	var currentOrderID int64
	require.NoError(t, f.db.Raw(`SELECT current_order_id FROM tables WHERE id = ?`, f.tableID).Scan(&currentOrderID).Error)
	assert.Equal(t, first.ID.Int64(), currentOrderID)

	var count int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM orders WHERE table_id = ?`, f.tableID).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenOrderConcurrent(t *testing.T) {
	f := newFixture(t)

	// Both goroutines race for the same table; the row lock decides.
	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Open(f.ctx(), domain.OpenOrderRequest{
				TableID:       f.tableID.String(),
				CustomerPhone: "0812000111",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var busy, opened int
	for err := range errs {
		if err == nil {
			opened++
			continue
		}
		require.ErrorIs(t, err, tabledomain.ErrTableBusy)
		busy++
	}
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, busy)

	var count int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM orders WHERE table_id = ?`, f.tableID).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpenOrderUnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open(f.ctx(), domain.OpenOrderRequest{
		TableID:       f.tableID.String(),
		CustomerPhone: "0999999999",
	})
	assert.Error(t, err)

	var occupied *int64
	require.NoError(t, f.db.Raw(`SELECT current_order_id FROM tables WHERE id = ?`, f.tableID).Scan(&occupied).Error)
	assert.Nil(t, occupied)
}

func TestOpenOrderUnknownTable(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open(f.ctx(), domain.OpenOrderRequest{
		TableID:       f.node.Generate().String(),
		CustomerPhone: "0812000111",
	})
	assert.ErrorIs(t, err, tabledomain.ErrNotFound)
}

func TestAddLinesSnapshotsCatalogPrice(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)

	lines, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines: []domain.LineInput{
			{DishID: f.dishID.String(), Quantity: 2},
			{ComboID: f.comboID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Pho Bo", lines[0].Name)
	assert.Equal(t, int64(50000), lines[0].UnitPrice)
	assert.Equal(t, domain.LineStatusWaiting, lines[0].Status)
	assert.Equal(t, "Family Set", lines[1].Name)
	assert.Equal(t, int64(200000), lines[1].UnitPrice)

	// Catalog edits after the append do not touch the snapshot.
	require.NoError(t, f.db.Exec(`UPDATE dishes SET price = 90000 WHERE id = ?`, f.dishID).Error)
	view, err := f.svc.View(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(300000), view.TotalMoney)
}

func TestAddLinesValidation(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)

	_, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{DishID: f.dishID.String(), ComboID: f.comboID.String(), Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{DishID: f.dishID.String(), Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)

	// No partial writes after a rejected batch.
	var count int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM order_lines WHERE order_id = ?`, order.ID).Scan(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAddLinesAfterSettlement(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)

	require.NoError(t, f.db.Exec(
		`INSERT INTO bills (id, order_id, restaurant_id, total, created_at) VALUES (?, ?, ?, 0, ?)`,
		f.node.Generate(), order.ID, f.restaurantID, f.clk.Now(),
	).Error)

	_, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{DishID: f.dishID.String(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrSettled)
}

func TestViewTotalsExcludeDeclinedLines(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)

	lines, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines: []domain.LineInput{
			{DishID: f.dishID.String(), Quantity: 2},
			{DishID: f.dishID.String(), Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.db.Exec(`UPDATE order_lines SET status = 'decline' WHERE id = ?`, lines[1].ID).Error)

	view, err := f.svc.View(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(100000), view.TotalMoney)
	assert.Equal(t, int64(2), view.TotalDish)

	// Without intervening mutation the computed view is stable.
	again, err := f.svc.View(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, view.TotalMoney, again.TotalMoney)
	assert.Equal(t, view.TotalDish, again.TotalDish)
}

func TestViewAppliesVAT(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Exec(
		`UPDATE restaurants SET vat_enabled = TRUE, vat_rate = 10 WHERE id = ?`, f.restaurantID,
	).Error)

	order := f.openOrder(t)
	_, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{DishID: f.dishID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	view, err := f.svc.View(f.ctx(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(110000), view.TotalMoney)
}

func TestFindByTable(t *testing.T) {
	f := newFixture(t)

	open, err := f.svc.FindByTable(f.ctx(), f.tableID.String())
	require.NoError(t, err)
	assert.Nil(t, open)

	order := f.openOrder(t)

	open, err = f.svc.FindByTable(f.ctx(), f.tableID.String())
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, order.ID, open.ID)
}

func TestAdvanceLine(t *testing.T) {
	f := newFixture(t)
	order := f.openOrder(t)

	lines, err := f.svc.AddLines(f.ctx(), domain.AddLinesRequest{
		OrderID: order.ID.String(),
		Lines:   []domain.LineInput{{DishID: f.dishID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	lineID := lines[0].ID.String()

	updated, err := f.svc.AdvanceLine(f.ctx(), lineID, domain.LineStatusPrepare)
	require.NoError(t, err)
	assert.Equal(t, domain.LineStatusPrepare, updated.Status)

	updated, err = f.svc.AdvanceLine(f.ctx(), lineID, domain.LineStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.LineStatusDone, updated.Status)

	// Done is terminal.
	_, err = f.svc.AdvanceLine(f.ctx(), lineID, domain.LineStatusDecline)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.AdvanceLine(f.ctx(), lineID, domain.LineStatusWaiting)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
