package order

import "github.com/shopspring/decimal"

// AggregateStats derives the dashboard counters from a full order set.
//
// The bucket counters run the three membership tests independently over every
// order, so a row whose two status columns disagree can be counted in more
// than one bucket. Revenue is recognised at confirmation: any order either
// column marks delivered or confirmed contributes its total_amount. Amounts
// accumulate as decimals, never binary floats.
func AggregateStats(orders []*Order) DashboardStats {
	stats := DashboardStats{TotalOrders: len(orders)}
	revenue := decimal.Zero
	for _, o := range orders {
		if InPendingBucket(o) {
			stats.PendingOrders++
		}
		if InAcceptedBucket(o) {
			stats.AcceptedOrders++
		}
		if InRejectedBucket(o) {
			stats.RejectedOrders++
		}
		if eitherIs(o, statusDelivered) || eitherIs(o, statusConfirmed) {
			revenue = revenue.Add(o.TotalAmount)
		}
	}
	stats.TotalRevenue = revenue
	return stats
}
