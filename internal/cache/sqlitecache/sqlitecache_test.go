package sqlitecache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seatbook/internal/cache"
)

func TestStore_GetSetOverwrite(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()

	_, err = s.Get(ctx, cache.KeyBookings)
	assert.True(t, errors.Is(err, cache.ErrMiss))

	require.NoError(t, s.Set(ctx, cache.KeyBookings, []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, cache.KeyBookings, []byte(`[1,2]`)))

	got, err := s.Get(ctx, cache.KeyBookings)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, cache.KeyLastResetWeek, []byte("2026-W42")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, cache.KeyLastResetWeek)
	require.NoError(t, err)
	assert.Equal(t, "2026-W42", string(got))
}
