package pickup

import (
	"context"
	"fmt"
	"strings"

	"pickup-service/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PGStore struct {
	db *db.DB
}

func NewPGStore(db *db.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, r Request) (Request, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pickup_requests (maker, model, drivable, owner, address, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`, r.Maker, r.Model, r.Drivable, r.Owner, r.Address, r.Phone, r.Email).
		Scan(&r.ID, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Request{}, fmt.Errorf("pickup: insert request: %w", err)
	}
	return r, nil
}

const listColumns = `id, maker, model, drivable, owner, address, phone, email,
		       status, memo, created_at, updated_at`

func (s *PGStore) List(ctx context.Context, f ListFilter) ([]Request, error) {
	var (
		where []string
		args  []any
	)

	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(maker ILIKE $%[1]d OR model ILIKE $%[1]d OR address ILIKE $%[1]d OR phone ILIKE $%[1]d OR email ILIKE $%[1]d OR memo ILIKE $%[1]d)",
			n,
		))
	}
	if f.Status.Valid() {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT " + listColumns + "\n\t\tFROM pickup_requests"
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, clampLimit(f.Limit))
	query += fmt.Sprintf("\n\t\tORDER BY created_at DESC, id DESC\n\t\tLIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pickup: list requests: %w", err)
	}
	defer rows.Close()

	out := []Request{}
	for rows.Next() {
		var r Request
		err := rows.Scan(
			&r.ID, &r.Maker, &r.Model, &r.Drivable, &r.Owner, &r.Address,
			&r.Phone, &r.Email, &r.Status, &r.Memo, &r.CreatedAt, &r.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("pickup: scan request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pickup: list requests: %w", err)
	}

	return out, nil
}

// Update sets status and memo on one request. A nil memo clears it.
func (s *PGStore) Update(ctx context.Context, id uuid.UUID, status Status, memo *string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pickup_requests
		SET status = $1, memo = $2, updated_at = NOW()
		WHERE id = $3
	`, status, memo, id)
	if err != nil {
		return fmt.Errorf("pickup: update request: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pickup: update request: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, ids []uuid.UUID, status Status) (int64, error) {
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE pickup_requests
		SET status = $1, updated_at = NOW()
		WHERE id = ANY($2::uuid[])
	`, status, pq.Array(raw))
	if err != nil {
		return 0, fmt.Errorf("pickup: bulk update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pickup: bulk update: %w", err)
	}
	return n, nil
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultListLimit
	case n > MaxListLimit:
		return MaxListLimit
	}
	return n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes q match literally inside an ILIKE pattern.
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}
