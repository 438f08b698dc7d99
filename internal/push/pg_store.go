package push

import (
	"context"
	"fmt"

	"pickup-service/internal/db"
)

type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Upsert(ctx context.Context, sub Subscription) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_push_subscriptions (endpoint, p256dh, auth)
		VALUES ($1, $2, $3)
		ON CONFLICT (endpoint)
		DO UPDATE SET p256dh = EXCLUDED.p256dh,
		              auth = EXCLUDED.auth,
		              updated_at = NOW()
	`, sub.Endpoint, sub.P256dh, sub.Auth)
	if err != nil {
		return fmt.Errorf("push: upsert subscription: %w", err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context) ([]Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT endpoint, p256dh, auth, created_at
		FROM admin_push_subscriptions
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("push: list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.Endpoint, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("push: scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("push: list subscriptions: %w", err)
	}

	return subs, nil
}

func (s *PGStore) Delete(ctx context.Context, endpoint string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM admin_push_subscriptions
		WHERE endpoint = $1
	`, endpoint)
	if err != nil {
		return fmt.Errorf("push: delete subscription: %w", err)
	}
	return nil
}
