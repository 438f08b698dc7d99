package db

import (
	"context"
	"database/sql"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS pickup_requests (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    maker text NOT NULL,
    model text NOT NULL,
    drivable text NOT NULL CHECK (drivable IN ('drivable', 'not_drivable')),
    owner text NOT NULL CHECK (owner IN ('self', 'not_self')),
    address text NOT NULL,
    phone text NOT NULL,
    email text NOT NULL,
    status text NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'working', 'done', 'ng')),
    memo text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS pickup_requests_created_at_idx
ON pickup_requests (created_at DESC);

CREATE TABLE IF NOT EXISTS admin_push_subscriptions (
    id bigserial PRIMARY KEY,
    endpoint text NOT NULL,
    p256dh text NOT NULL,
    auth text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT admin_push_subscriptions_endpoint_unique
        UNIQUE (endpoint)
);
`

// Migrate creates the tables the service needs. Every statement is
// idempotent so it runs on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
