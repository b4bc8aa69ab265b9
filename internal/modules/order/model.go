package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a row in the orders table. It carries two status columns: the
// legacy Status vocabulary and the newer OrderStatus one. Neither column is
// ever rewritten into a merged value; external readers depend on both being
// returned untouched. Lifecycle decisions go through CanonicalStage instead
// of trusting either column alone.
type Order struct {
	ID                      uuid.UUID           `json:"id"`
	UserID                  uuid.UUID           `json:"user_id"`
	TotalAmount             decimal.Decimal     `json:"total_amount"`
	DiscountAmount          decimal.NullDecimal `json:"discount_amount,omitempty"`
	AppliedCouponCode       string              `json:"applied_coupon_code,omitempty"`
	Status                  string              `json:"status,omitempty"`
	OrderStatus             string              `json:"order_status"`
	PickupDate              *time.Time          `json:"pickup_date,omitempty"`
	PickupSlotDisplayTime   string              `json:"pickup_slot_display_time,omitempty"`
	DeliveryDate            *time.Time          `json:"delivery_date,omitempty"`
	DeliverySlotDisplayTime string              `json:"delivery_slot_display_time,omitempty"`
	DeliveryType            string              `json:"delivery_type,omitempty"`
	DeliveryAddress         string              `json:"delivery_address,omitempty"`
	PaymentMethod           string              `json:"payment_method,omitempty"`
	PaymentStatus           string              `json:"payment_status,omitempty"`
	PaymentID               string              `json:"payment_id,omitempty"`
	CanBeCancelled          bool                `json:"can_be_cancelled"`
	CancelledAt             *time.Time          `json:"cancelled_at,omitempty"`
	CancellationReason      string              `json:"cancellation_reason,omitempty"`
	Items                   []*OrderItem        `json:"items,omitempty"`
	CreatedAt               time.Time           `json:"created_at"`
	UpdatedAt               time.Time           `json:"updated_at"`

	// Joined from the customer directory. Placeholder text when the lookup
	// fails or the customer no longer exists; never empty on a listing.
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// OrderItem is a single line of an order. Items are immutable once the order
// is placed; Position preserves the insertion order for display.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductName string          `json:"product_name"`
	ServiceType string          `json:"service_type"`
	Quantity    int             `json:"product_quantity"`
	UnitPrice   decimal.Decimal `json:"product_price"`
	LineTotal   decimal.Decimal `json:"total_price"`
	Position    int             `json:"-"`
}

// DashboardStats is recomputed on demand and never persisted. The bucket
// counters are independent membership counts, not a partition: one order can
// appear in more than one bucket, so the counters need not sum to TotalOrders.
type DashboardStats struct {
	TotalOrders    int             `json:"totalOrders"`
	PendingOrders  int             `json:"pendingOrders"`
	AcceptedOrders int             `json:"acceptedOrders"`
	RejectedOrders int             `json:"rejectedOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

// UpdateStatusRequest is the PATCH /admin/orders payload.
type UpdateStatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
