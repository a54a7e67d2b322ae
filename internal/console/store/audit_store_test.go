package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditPool connects to POSTGRES_URL, or skips when it is not set.
func auditPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		t.Skip("POSTGRES_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))
	t.Cleanup(pool.Close)
	return pool
}

func TestAuditStoreInsertAndRecent(t *testing.T) {
	pool := auditPool(t)
	ctx := context.Background()
	s := NewAuditStore(pool)

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx), "schema creation is repeatable")

	target := "test:" + uuid.New().String()
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM console_audit WHERE target = $1`, target)
	})

	var ids []int64
	for _, action := range []string{"user.create", "user.status", "user.delete"} {
		id, err := s.Insert(ctx, models.AuditEntry{
			ActorID:    1,
			ActorEmail: "admin@nobleco.vn",
			Action:     action,
			Target:     target,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Less(t, ids[0], ids[1])
	assert.Less(t, ids[1], ids[2])

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ids[2], entries[0].ID)
	assert.Equal(t, "user.delete", entries[0].Action)
	assert.Equal(t, ids[1], entries[1].ID)
	assert.Equal(t, "admin@nobleco.vn", entries[1].ActorEmail)
	assert.Empty(t, entries[1].Detail)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

