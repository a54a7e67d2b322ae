package store

import (
	"context"
	"fmt"

	"github.com/avvvet/nobleco-console/internal/console/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditStore struct {
	db *pgxpool.Pool
}

func NewAuditStore(db *pgxpool.Pool) *AuditStore {
	return &AuditStore{db: db}
}

// EnsureSchema creates the audit table on first start.
func (r *AuditStore) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS console_audit (
            id          BIGSERIAL PRIMARY KEY,
            actor_id    BIGINT NOT NULL DEFAULT 0,
            actor_email TEXT NOT NULL DEFAULT '',
            action      TEXT NOT NULL,
            target      TEXT NOT NULL DEFAULT '',
            detail      TEXT NOT NULL DEFAULT '',
            created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS console_audit_created_at_idx ON console_audit (created_at DESC);
    `)
	if err != nil {
		return fmt.Errorf("could not create console_audit: %w", err)
	}
	return nil
}

func (r *AuditStore) Insert(ctx context.Context, e models.AuditEntry) (int64, error) {
	var id int64

	query := `
        INSERT INTO console_audit (actor_id, actor_email, action, target, detail)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id;
    `

	err := r.db.QueryRow(ctx, query, e.ActorID, e.ActorEmail, e.Action, e.Target, e.Detail).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("could not insert audit entry: %w", err)
	}

	return id, nil
}

func (r *AuditStore) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, actor_id, actor_email, action, target, detail, created_at
        FROM console_audit
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("could not query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		e := models.AuditEntry{}
		err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorEmail,
			&e.Action,
			&e.Target,
			&e.Detail,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
