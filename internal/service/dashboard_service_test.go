package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.newProduct(t, "DB-001") // 10 x 120.50
	low := f.newProduct(t, "DB-002")
	f.adjust(t, low.ID, -8, nil) // 2 x 120.50

	stats, err := f.dashboard.GetDashboardStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 1, stats.UnreadNotifications)
	assert.True(t, stats.TotalValuation.Equal(decimal.NewFromInt(1446)), stats.TotalValuation.String())
}

func TestDashboardStockMovement(t *testing.T) {
	f := newFixture(t)
	p := f.newProduct(t, "DB-003")
	f.adjust(t, p.ID, -4, nil)
	f.adjust(t, p.ID, 3, nil)

	movement, err := f.dashboard.GetStockMovement(7)
	require.NoError(t, err)
	require.NotEmpty(t, movement)

	inbound, outbound := 0, 0
	for _, m := range movement {
		inbound += m.Inbound
		outbound += m.Outbound
	}
	assert.Equal(t, 13, inbound)
	assert.Equal(t, 4, outbound)
}
