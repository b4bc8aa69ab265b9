package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ironxpress/admin-backend/internal/modules/order"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregateStats_EmptySet(t *testing.T) {
	stats := order.AggregateStats(nil)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, 0, stats.PendingOrders)
	assert.Equal(t, 0, stats.AcceptedOrders)
	assert.Equal(t, 0, stats.RejectedOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
}

func TestAggregateStats_BucketsAndRevenue(t *testing.T) {
	orders := []*order.Order{
		{OrderStatus: "confirmed", TotalAmount: amount("500")},
		{OrderStatus: "pending", TotalAmount: amount("120")},
		{OrderStatus: "delivered", TotalAmount: amount("250.50")},
		{OrderStatus: "cancelled", TotalAmount: amount("100")},
		{OrderStatus: "in_transit", TotalAmount: amount("75")},
	}

	stats := order.AggregateStats(orders)

	assert.Equal(t, 5, stats.TotalOrders)
	assert.Equal(t, 2, stats.PendingOrders)  // confirmed + pending
	assert.Equal(t, 2, stats.AcceptedOrders) // delivered + in_transit
	assert.Equal(t, 1, stats.RejectedOrders) // cancelled
	// Revenue is recognised at confirmation: confirmed and delivered count,
	// pending, in_transit and cancelled do not.
	assert.True(t, amount("750.50").Equal(stats.TotalRevenue),
		"got %s", stats.TotalRevenue)
}

func TestAggregateStats_DualFieldOrderCountsInBothBuckets(t *testing.T) {
	orders := []*order.Order{
		{OrderStatus: "confirmed", Status: "delivered", TotalAmount: amount("300")},
	}

	stats := order.AggregateStats(orders)

	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.Equal(t, 1, stats.AcceptedOrders)
	// Counted once toward revenue even though both columns qualify.
	assert.True(t, amount("300").Equal(stats.TotalRevenue))
}

func TestAggregateStats_MissingAmountContributesZero(t *testing.T) {
	orders := []*order.Order{
		{OrderStatus: "delivered"}, // NULL total_amount scans as zero
		{OrderStatus: "delivered", TotalAmount: amount("40")},
	}

	stats := order.AggregateStats(orders)

	assert.True(t, amount("40").Equal(stats.TotalRevenue))
}

func TestAggregateStats_DecimalAccumulation(t *testing.T) {
	// 0.1 three times must sum to exactly 0.3, which float64 cannot do.
	orders := []*order.Order{
		{OrderStatus: "confirmed", TotalAmount: amount("0.1")},
		{OrderStatus: "confirmed", TotalAmount: amount("0.1")},
		{OrderStatus: "confirmed", TotalAmount: amount("0.1")},
	}

	stats := order.AggregateStats(orders)

	assert.True(t, amount("0.3").Equal(stats.TotalRevenue),
		"got %s", stats.TotalRevenue)
}
