package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/app/config"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
)

// InitDB opens the connection pool and bootstraps the schema.
func InitDB(cfg config.PostgresConfig, log logger.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	log.Info("Database connection established")
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	role VARCHAR(20) NOT NULL DEFAULT 'none',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	rating_average DOUBLE PRECISION NOT NULL DEFAULT 0,
	rating_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS listings (
	id UUID PRIMARY KEY,
	seller_id UUID NOT NULL REFERENCES users(id),
	seller_type VARCHAR(20) NOT NULL,
	seller_name TEXT NOT NULL,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	unit VARCHAR(20) NOT NULL,
	price_per_unit NUMERIC(12,2) NOT NULL,
	available_stock NUMERIC(14,3) NOT NULL CHECK (available_stock >= 0),
	min_order_quantity NUMERIC(14,3) NOT NULL DEFAULT 1,
	delivery_charge NUMERIC(12,2) NOT NULL DEFAULT 0,
	delivery_charge_type VARCHAR(10) NOT NULL DEFAULT 'flat',
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	rating_average DOUBLE PRECISION NOT NULL DEFAULT 0,
	rating_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS carts (
	id UUID PRIMARY KEY,
	buyer_id UUID NOT NULL UNIQUE REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cart_items (
	id UUID PRIMARY KEY,
	cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	listing_id UUID NOT NULL REFERENCES listings(id),
	quantity NUMERIC(14,3) NOT NULL CHECK (quantity > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (cart_id, listing_id)
);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	buyer_id UUID NOT NULL REFERENCES users(id),
	total_amount NUMERIC(14,2) NOT NULL,
	platform_fee NUMERIC(14,2) NOT NULL,
	seller_amount NUMERIC(14,2) NOT NULL,
	payment_status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
	order_status VARCHAR(12) NOT NULL DEFAULT 'PROCESSING',
	payout_status VARCHAR(10) NOT NULL DEFAULT 'PENDING',
	gateway_order_id TEXT NOT NULL DEFAULT '',
	invoice_number TEXT NOT NULL DEFAULT '',
	dispute_status VARCHAR(10) NOT NULL DEFAULT '',
	dispute_reason TEXT NOT NULL DEFAULT '',
	dispute_created_at TIMESTAMPTZ,
	dispute_resolved_at TIMESTAMPTZ,
	payout_settled_by TEXT NOT NULL DEFAULT '',
	payout_settled_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders (buyer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_payout ON orders (payout_status) WHERE payment_status = 'PAID';

CREATE TABLE IF NOT EXISTS order_items (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	listing_id UUID NOT NULL,
	listing_title TEXT NOT NULL,
	unit VARCHAR(20) NOT NULL,
	quantity NUMERIC(14,3) NOT NULL,
	price_at_purchase NUMERIC(12,2) NOT NULL,
	delivery_charge_at_purchase NUMERIC(12,2) NOT NULL,
	delivery_charge_type_at_purchase VARCHAR(10) NOT NULL,
	seller_id UUID NOT NULL,
	seller_type VARCHAR(20) NOT NULL,
	seller_name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_seller ON order_items (seller_id);

CREATE TABLE IF NOT EXISTS order_tracking (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	status VARCHAR(12) NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	transport_mode TEXT NOT NULL DEFAULT '',
	vehicle_number TEXT NOT NULL DEFAULT '',
	driver_contact TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	expected_delivery TIMESTAMPTZ,
	created_by UUID NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_order_tracking_order ON order_tracking (order_id, created_at DESC);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id),
	type VARCHAR(30) NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	link_url TEXT NOT NULL DEFAULT '',
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS reviews (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id),
	listing_id UUID NOT NULL REFERENCES listings(id),
	seller_id UUID NOT NULL,
	buyer_id UUID NOT NULL REFERENCES users(id),
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (order_id, listing_id, buyer_id)
);
`
