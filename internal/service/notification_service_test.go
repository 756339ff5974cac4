package service

import (
	"context"
	"testing"

	"go-medspa-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.newProduct(t, "NT-001")
	n := f.adjust(t, p.ID, -7, nil).Notification
	require.NotNil(t, n)

	first, err := f.notifications.MarkRead(n.ID)
	require.NoError(t, err)
	second, err := f.notifications.MarkRead(n.ID)
	require.NoError(t, err)

	assert.True(t, second.IsRead)
	require.NotNil(t, first.ReadAt)
	require.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))
}

func TestMarkReadUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.notifications.MarkRead(uuid.New())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestEnsureLowStockNotificationSkipsHealthyStock(t *testing.T) {
	f := newFixture(t)
	n, created, err := f.notifications.EnsureLowStockNotification(f.db, &model.Product{
		CurrentStock:      6,
		LowStockThreshold: 5,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Nil(t, n)
}

func TestEnsureLowStockNotificationAtThreshold(t *testing.T) {
	f := newFixture(t)
	p := &model.Product{Name: "Retinol", SKU: "RT-1", CurrentStock: 5, LowStockThreshold: 5}
	p.ID = uuid.New()

	n, created, err := f.notifications.EnsureLowStockNotification(f.db, p)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "Low stock alert: Retinol (SKU RT-1) has 5 units left (threshold 5)", n.Message)

	again, created, err := f.notifications.EnsureLowStockNotification(f.db, p)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, n.ID, again.ID)
}

func TestSweepLowStock(t *testing.T) {
	f := newFixture(t)
	p := f.newProduct(t, "NT-002")
	n := f.adjust(t, p.ID, -8, nil).Notification
	require.NotNil(t, n)
	f.newProduct(t, "NT-003") // healthy

	// nothing to do while the alert is unread
	created, err := f.notifications.SweepLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	_, err = f.notifications.MarkRead(n.ID)
	require.NoError(t, err)

	created, err = f.notifications.SweepLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	unread, err := f.notifications.List(true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, p.ID, unread[0].ProductID)
	assert.Equal(t, 2, unread[0].CurrentStock)
}

func TestSweepLowStockSkipsInactive(t *testing.T) {
	f := newFixture(t)
	inactive := false
	_, err := f.inventory.CreateProduct(&CreateProductInput{Name: "Old", SKU: "NT-004", IsActive: &inactive}, nil)
	require.NoError(t, err)

	// creation already raised one; clear it and sweep
	unread, err := f.notifications.List(true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	_, err = f.notifications.MarkRead(unread[0].ID)
	require.NoError(t, err)

	created, err := f.notifications.SweepLowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestSweepLowStockHonoursCancel(t *testing.T) {
	f := newFixture(t)
	p := f.newProduct(t, "NT-005")
	n := f.adjust(t, p.ID, -8, nil).Notification
	_, err := f.notifications.MarkRead(n.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.notifications.SweepLowStock(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
