package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minsukang/tripweaver/internal/adapters/persistence"
	"github.com/minsukang/tripweaver/internal/domain/routing"
	"github.com/minsukang/tripweaver/internal/domain/shared"
	"github.com/minsukang/tripweaver/internal/infrastructure/database"
)

func TestGormSegmentRepository(t *testing.T) {
	ctx := context.Background()
	key := "37.567,126.978:37.551,126.988"
	cost := routing.SegmentCost{
		Key:             routing.SegmentKey{FromID: "a", ToID: "b"},
		DurationMinutes: 14,
		DistanceMeters:  1800,
	}

	newRepo := func(t *testing.T, ttl time.Duration, clock shared.Clock) *persistence.GormSegmentRepository {
		db, err := database.NewTestConnection()
		require.NoError(t, err)
		t.Cleanup(func() { database.Close(db) })
		return persistence.NewGormSegmentRepository(db, ttl, clock)
	}

	t.Run("round trips a cost", func(t *testing.T) {
		repo := newRepo(t, time.Hour, shared.NewMockClock(time.Now()))

		require.NoError(t, repo.Save(ctx, key, cost))

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 14.0, got.DurationMinutes)
		assert.Equal(t, "a->b", got.Key.String())
	})

	t.Run("absent keys load as nil without error", func(t *testing.T) {
		repo := newRepo(t, time.Hour, shared.NewMockClock(time.Now()))

		got, err := repo.Load(ctx, "no-such-key")

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save is an upsert", func(t *testing.T) {
		repo := newRepo(t, time.Hour, shared.NewMockClock(time.Now()))

		require.NoError(t, repo.Save(ctx, key, cost))
		updated := cost
		updated.DurationMinutes = 20
		require.NoError(t, repo.Save(ctx, key, updated))

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 20.0, got.DurationMinutes)
	})

	t.Run("stale entries load as nil", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		repo := newRepo(t, time.Hour, clock)

		require.NoError(t, repo.Save(ctx, key, cost))
		clock.Advance(2 * time.Hour)

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("fresh entries exclude stale rows", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		repo := newRepo(t, time.Hour, clock)

		require.NoError(t, repo.Save(ctx, "old-key", cost))
		clock.Advance(2 * time.Hour)
		require.NoError(t, repo.Save(ctx, key, cost))

		entries, err := repo.FreshEntries(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries, key)
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		clock := shared.NewMockClock(time.Now())
		repo := newRepo(t, 0, clock)

		require.NoError(t, repo.Save(ctx, key, cost))
		clock.Advance(240 * time.Hour)

		got, err := repo.Load(ctx, key)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
