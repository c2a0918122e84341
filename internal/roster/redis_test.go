package roster

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

func newRedisRoster(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Hour), mr
}

func TestRedisAppendAndList(t *testing.T) {
	r, _ := newRedisRoster(t)
	ctx := context.Background()

	first := attendance.Record{ID: "rec-1", Name: "Ana Silva", Email: "a@b.com"}
	second := attendance.Record{ID: "rec-2", Name: "Bruno Costa", Email: "b@c.com"}
	require.NoError(t, r.Append(ctx, "sess-1", first))
	require.NoError(t, r.Append(ctx, "sess-1", second))

	recs, err := r.List(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "rec-1", recs[0].ID)
	assert.Equal(t, "rec-2", recs[1].ID)
}

func TestRedisAppendRejectsDuplicate(t *testing.T) {
	r, _ := newRedisRoster(t)
	ctx := context.Background()

	rec := attendance.Record{ID: "rec-1", Name: "Ana Silva", Email: "a@b.com"}
	require.NoError(t, r.Append(ctx, "sess-1", rec))

	err := r.Append(ctx, "sess-1", rec)
	require.ErrorIs(t, err, attendance.ErrDuplicate)

	ok, err := r.Contains(ctx, "sess-1", "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisAppendFailureReleasesEmail(t *testing.T) {
	r, mr := newRedisRoster(t)
	ctx := context.Background()

	// A records key of the wrong type makes the commit pipeline fail after
	// the email has been reserved.
	require.NoError(t, mr.Set(recordsKey("sess-1"), "not-a-list"))

	rec := attendance.Record{ID: "rec-1", Name: "Ana Silva", Email: "a@b.com"}
	err := r.Append(ctx, "sess-1", rec)
	require.Error(t, err)
	require.NotErrorIs(t, err, attendance.ErrDuplicate)

	// The reservation must not survive the failed commit.
	ok, err := r.Contains(ctx, "sess-1", "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)

	// With the conflict gone the same submission goes through.
	mr.Del(recordsKey("sess-1"))
	require.NoError(t, r.Append(ctx, "sess-1", rec))
	recs, err := r.List(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
}
