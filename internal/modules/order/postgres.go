package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const orderColumns = `id, user_id, total_amount, discount_amount, applied_coupon_code,
	status, order_status, pickup_date, pickup_slot_display_time,
	delivery_date, delivery_slot_display_time, delivery_type, delivery_address,
	payment_method, payment_status, payment_id, can_be_cancelled,
	cancelled_at, cancellation_reason, created_at, updated_at`

func (r *postgresRepo) ListOrders(ctx context.Context) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *postgresRepo) GetOrderByID(ctx context.Context, id string) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Items, err = r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, requested Stage, now time.Time) (*Order, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	var res sql.Result
	if requested == StageRejected {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders SET order_status=$1, cancelled_at=$2, updated_at=$2 WHERE id=$3`,
			requested.StorageValue(), now, uid)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders SET order_status=$1, updated_at=$2 WHERE id=$3`,
			requested.StorageValue(), now, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return r.GetOrderByID(ctx, id)
}

func (r *postgresRepo) ListItems(ctx context.Context, orderID string) ([]*OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_name, service_type, product_quantity, product_price, total_price, position
		FROM order_items WHERE order_id=$1 ORDER BY position ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []*OrderItem
	for rows.Next() {
		item := &OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductName, &item.ServiceType,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.Position); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ── helpers ──────────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*Order, error) {
	o := &Order{}
	var (
		userID      sql.NullString
		totalAmount decimal.NullDecimal
		status, coupon, pickupSlot, deliverySlot,
		deliveryType, deliveryAddress,
		paymentMethod, paymentStatus, paymentID,
		cancellationReason sql.NullString
		pickupDate, deliveryDate, cancelledAt sql.NullTime
	)
	err := row.Scan(
		&o.ID, &userID, &totalAmount, &o.DiscountAmount, &coupon,
		&status, &o.OrderStatus, &pickupDate, &pickupSlot,
		&deliveryDate, &deliverySlot, &deliveryType, &deliveryAddress,
		&paymentMethod, &paymentStatus, &paymentID, &o.CanBeCancelled,
		&cancelledAt, &cancellationReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		uid, err := uuid.Parse(userID.String)
		if err == nil {
			o.UserID = uid
		}
	}
	// NULL amounts read as zero so aggregation never trips on them.
	o.TotalAmount = totalAmount.Decimal
	o.Status = status.String
	o.AppliedCouponCode = coupon.String
	o.PickupSlotDisplayTime = pickupSlot.String
	o.DeliverySlotDisplayTime = deliverySlot.String
	o.DeliveryType = deliveryType.String
	o.DeliveryAddress = deliveryAddress.String
	o.PaymentMethod = paymentMethod.String
	o.PaymentStatus = paymentStatus.String
	o.PaymentID = paymentID.String
	o.CancellationReason = cancellationReason.String
	if pickupDate.Valid {
		o.PickupDate = &pickupDate.Time
	}
	if deliveryDate.Valid {
		o.DeliveryDate = &deliveryDate.Time
	}
	if cancelledAt.Valid {
		o.CancelledAt = &cancelledAt.Time
	}
	return o, nil
}
