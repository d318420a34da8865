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

type trackingRepository struct {
	db *sql.DB
}

func NewOrderTrackingRepository(db *sql.DB) repository.OrderTrackingRepository {
	return &trackingRepository{db: db}
}

const trackingColumns = `id, order_id, status, notes, transport_mode, vehicle_number,
	driver_contact, location, expected_delivery, created_by, created_at`

func scanTracking(row interface{ Scan(dest ...interface{}) error }) (*entity.OrderTracking, error) {
	var t entity.OrderTracking
	err := row.Scan(&t.ID, &t.OrderID, &t.Status, &t.Notes, &t.TransportMode,
		&t.VehicleNumber, &t.DriverContact, &t.Location, &t.ExpectedDelivery,
		&t.CreatedBy, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *trackingRepository) Append(ctx context.Context, tracking *entity.OrderTracking) error {
	if tracking.CreatedAt.IsZero() {
		tracking.CreatedAt = time.Now().UTC()
	}
	_, err := q(ctx, r.db).ExecContext(ctx, `
		INSERT INTO order_tracking (id, order_id, status, notes, transport_mode,
			vehicle_number, driver_contact, location, expected_delivery, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		tracking.ID, tracking.OrderID, tracking.Status, tracking.Notes, tracking.TransportMode,
		tracking.VehicleNumber, tracking.DriverContact, tracking.Location,
		tracking.ExpectedDelivery, tracking.CreatedBy, tracking.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append tracking entry for order %s: %w", tracking.OrderID, err)
	}
	return nil
}

func (r *trackingRepository) ListByOrder(ctx context.Context, orderID string) ([]entity.OrderTracking, error) {
	rows, err := q(ctx, r.db).QueryContext(ctx,
		`SELECT `+trackingColumns+` FROM order_tracking WHERE order_id = $1 ORDER BY created_at DESC`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var entries []entity.OrderTracking
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tracking row: %w", err)
		}
		entries = append(entries, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracking rows: %w", err)
	}
	return entries, nil
}

func (r *trackingRepository) LatestWithStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.OrderTracking, error) {
	row := q(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+trackingColumns+` FROM order_tracking
		 WHERE order_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`,
		orderID, status,
	)
	t, err := scanTracking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest %s tracking for order %s: %w", status, orderID, err)
	}
	return t, nil
}
