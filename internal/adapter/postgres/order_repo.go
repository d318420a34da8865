package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, buyer_id, total_amount, platform_fee, seller_amount,
	payment_status, order_status, payout_status, gateway_order_id, invoice_number,
	dispute_status, dispute_reason, dispute_created_at, dispute_resolved_at,
	payout_settled_by, payout_settled_at, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...interface{}) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.TotalAmount, &o.PlatformFee, &o.SellerAmount,
		&o.PaymentStatus, &o.OrderStatus, &o.PayoutStatus, &o.GatewayOrderID, &o.InvoiceNumber,
		&o.DisputeStatus, &o.DisputeReason, &o.DisputeCreatedAt, &o.DisputeResolvedAt,
		&o.PayoutSettledBy, &o.PayoutSettledAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order, items []entity.OrderItem) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := q(ctx, r.db).ExecContext(ctx, `
		INSERT INTO orders (id, buyer_id, total_amount, platform_fee, seller_amount,
			payment_status, order_status, payout_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.BuyerID, order.TotalAmount, order.PlatformFee, order.SellerAmount,
		order.PaymentStatus, order.OrderStatus, order.PayoutStatus, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range items {
		items[i].OrderID = order.ID
		items[i].CreatedAt = now
		_, err := q(ctx, r.db).ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, listing_id, listing_title, unit, quantity,
				price_at_purchase, delivery_charge_at_purchase, delivery_charge_type_at_purchase,
				seller_id, seller_type, seller_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			items[i].ID, items[i].OrderID, items[i].ListingID, items[i].ListingTitle,
			items[i].Unit, items[i].Quantity, items[i].PriceAtPurchase,
			items[i].DeliveryChargeAtPurchase, items[i].DeliveryChargeTypeAtPurchase,
			items[i].SellerID, items[i].SellerType, items[i].SellerName, items[i].CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item for listing %s: %w", items[i].ListingID, err)
		}
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*entity.Order, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return o, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx, `
		SELECT id, order_id, listing_id, listing_title, unit, quantity,
			price_at_purchase, delivery_charge_at_purchase, delivery_charge_type_at_purchase,
			seller_id, seller_type, seller_name, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for %s: %w", orderID, err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ListingID, &it.ListingTitle, &it.Unit,
			&it.Quantity, &it.PriceAtPurchase, &it.DeliveryChargeAtPurchase,
			&it.DeliveryChargeTypeAtPurchase, &it.SellerID, &it.SellerType, &it.SellerName,
			&it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order item rows: %w", err)
	}
	return items, nil
}

func (r *orderRepository) SetGatewayOrderID(ctx context.Context, orderID, gatewayOrderID string) error {
	return r.exec(ctx, orderID,
		`UPDATE orders SET gateway_order_id = $2, updated_at = now() WHERE id = $1`,
		orderID, gatewayOrderID)
}

func (r *orderRepository) MarkPaid(ctx context.Context, orderID, invoiceNumber string) (bool, error) {
	res, err := q(ctx, r.db).ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, invoice_number = $3, updated_at = now()
		WHERE id = $1 AND payment_status = $4`,
		orderID, entity.PaymentPaid, invoiceNumber, entity.PaymentPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *orderRepository) SetOrderStatus(ctx context.Context, orderID string, status entity.OrderStatus) error {
	return r.exec(ctx, orderID,
		`UPDATE orders SET order_status = $2, updated_at = now() WHERE id = $1`,
		orderID, status)
}

func (r *orderRepository) OpenDispute(ctx context.Context, orderID, reason string, at time.Time) error {
	return r.exec(ctx, orderID, `
		UPDATE orders SET dispute_status = $2, dispute_reason = $3, dispute_created_at = $4,
			dispute_resolved_at = NULL, payout_status = $5, updated_at = now()
		WHERE id = $1`,
		orderID, entity.DisputeOpen, reason, at, entity.PayoutFrozen)
}

func (r *orderRepository) ResolveDispute(ctx context.Context, orderID string, dispute entity.DisputeStatus, payout entity.PayoutStatus, at time.Time) error {
	return r.exec(ctx, orderID, `
		UPDATE orders SET dispute_status = $2, dispute_resolved_at = $3, payout_status = $4,
			updated_at = now()
		WHERE id = $1`,
		orderID, dispute, at, payout)
}

func (r *orderRepository) SetPayoutSettled(ctx context.Context, orderID, settledBy string, at time.Time) error {
	return r.exec(ctx, orderID, `
		UPDATE orders SET payout_status = $2, payout_settled_by = $3, payout_settled_at = $4,
			updated_at = now()
		WHERE id = $1`,
		orderID, entity.PayoutSettled, settledBy, at)
}

func (r *orderRepository) exec(ctx context.Context, orderID, query string, args ...interface{}) error {
	res, err := q(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, params repository.ListOrdersParams) ([]entity.Order, int64, error) {
	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 5)
	if params.BuyerID != "" {
		args = append(args, params.BuyerID)
		where += fmt.Sprintf(" AND buyer_id = $%d", len(args))
	}
	if params.PaymentStatus != "" {
		args = append(args, params.PaymentStatus)
		where += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if params.PayoutStatus != "" {
		args = append(args, params.PayoutStatus)
		where += fmt.Sprintf(" AND payout_status = $%d", len(args))
	}

	var total int64
	if err := q(ctx, r.db).QueryRowContext(ctx, `SELECT count(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, pageSize)
	limitClause := fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, (page-1)*pageSize)
	limitClause += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := q(ctx, r.db).QueryContext(ctx, `SELECT `+orderColumns+` FROM orders`+where+limitClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	return orders, total, nil
}
