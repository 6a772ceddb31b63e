package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabletab/tabletab/internal/clock"
	"github.com/tabletab/tabletab/internal/restaurantctx"
	"github.com/tabletab/tabletab/internal/table/domain"
	"github.com/tabletab/tabletab/internal/table/repository"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *snowflake.Node, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec(`CREATE TABLE tables (
		id INTEGER PRIMARY KEY,
		restaurant_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		capacity INTEGER NOT NULL DEFAULT 0,
		position TEXT NOT NULL DEFAULT '',
		current_order_id INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := &Service{
		db:    db,
		log:   zaptest.NewLogger(t),
		genID: node,
		clock: clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		repo:  repository.Provide(),
	}
	return svc, node, db
}

func TestCreateAndList(t *testing.T) {
	svc, node, _ := newTestService(t)
	ctx := restaurantctx.WithRestaurantID(context.Background(), node.Generate())

	created, err := svc.Create(ctx, domain.CreateTableRequest{Label: " T1 ", Capacity: 4, Position: "window"})
	require.NoError(t, err)
	assert.Equal(t, "T1", created.Label)
	assert.Nil(t, created.CurrentOrderID)

	_, err = svc.Create(ctx, domain.CreateTableRequest{Label: "T2", Capacity: 2})
	require.NoError(t, err)

	tables, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	// Listing is scoped to the calling restaurant.
	other := restaurantctx.WithRestaurantID(context.Background(), node.Generate())
	tables, err = svc.List(other)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestCreateValidation(t *testing.T) {
	svc, node, _ := newTestService(t)
	ctx := restaurantctx.WithRestaurantID(context.Background(), node.Generate())

	_, err := svc.Create(ctx, domain.CreateTableRequest{Label: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidLabel)

	_, err = svc.Create(context.Background(), domain.CreateTableRequest{Label: "T1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRestaurant)
}

func TestGetByID(t *testing.T) {
	svc, node, _ := newTestService(t)
	ctx := restaurantctx.WithRestaurantID(context.Background(), node.Generate())

	created, err := svc.Create(ctx, domain.CreateTableRequest{Label: "T1"})
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByID(ctx, node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestTenantScoping(t *testing.T) {
	svc, node, db := newTestService(t)
	owner := restaurantctx.WithRestaurantID(context.Background(), node.Generate())
	intruder := restaurantctx.WithRestaurantID(context.Background(), node.Generate())

	created, err := svc.Create(owner, domain.CreateTableRequest{Label: "T1"})
	require.NoError(t, err)

	orderID := node.Generate()
	require.NoError(t, db.Exec(`UPDATE tables SET current_order_id = ? WHERE id = ?`, orderID, created.ID).Error)

	_, err = svc.GetByID(intruder, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Release(intruder, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The occupancy is untouched.
	current, err := svc.CurrentOrder(owner, created.ID.String())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, orderID, *current)

	err = svc.Release(context.Background(), created.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidRestaurant)
}

func TestReleaseClearsCurrentOrder(t *testing.T) {
	svc, node, db := newTestService(t)
	ctx := restaurantctx.WithRestaurantID(context.Background(), node.Generate())

	created, err := svc.Create(ctx, domain.CreateTableRequest{Label: "T1"})
	require.NoError(t, err)

	orderID := node.Generate()
	require.NoError(t, db.Exec(`UPDATE tables SET current_order_id = ? WHERE id = ?`, orderID, created.ID).Error)

	current, err := svc.CurrentOrder(ctx, created.ID.String())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, orderID, *current)

	require.NoError(t, svc.Release(ctx, created.ID.String()))

	current, err = svc.CurrentOrder(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Nil(t, current)

	err = svc.Release(ctx, node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
