package roster

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
)

func rec(email string) attendance.Record {
	return attendance.Record{
		ID:          "id-" + email,
		Email:       email,
		Name:        "someone",
		Status:      attendance.StatusPresent,
		SubmittedAt: time.Now().UTC(),
	}
}

func TestMemoryAppendPreservesOrder(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	var want []string
	for i := 0; i < 5; i++ {
		email := fmt.Sprintf("s%d@school.com", i)
		want = append(want, email)
		require.NoError(t, m.Append(ctx, "sess", rec(email)))
	}

	records, err := m.List(ctx, "sess")
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, want[i], r.Email)
	}
}

func TestMemoryRejectsDuplicateEmail(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "sess", rec("a@b.com")))
	err := m.Append(ctx, "sess", rec("a@b.com"))
	assert.ErrorIs(t, err, attendance.ErrDuplicate)

	records, err := m.List(ctx, "sess")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMemoryDuplicateCheckIsCaseSensitive(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "sess", rec("a@b.com")))
	assert.NoError(t, m.Append(ctx, "sess", rec("A@b.com")))

	dup, err := m.Contains(ctx, "sess", "a@b.com")
	require.NoError(t, err)
	assert.True(t, dup)
	dup, err = m.Contains(ctx, "sess", "a@B.com")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestMemorySessionsAreIsolated(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "sess-1", rec("a@b.com")))
	dup, err := m.Contains(ctx, "sess-2", "a@b.com")
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestMemorySweepDropsIdleSessions(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "sess", rec("a@b.com")))
	m.sweep(time.Now().Add(2 * time.Hour))

	records, err := m.List(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, records)
}
