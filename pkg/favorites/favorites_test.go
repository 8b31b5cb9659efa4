package favorites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ids, err := s.List(ctx, "a@county.gov")
	require.NoError(t, err)
	require.Empty(t, ids)

	require.NoError(t, s.Add(ctx, "a@county.gov", "p2"))
	require.NoError(t, s.Add(ctx, "a@county.gov", "p1"))
	require.NoError(t, s.Add(ctx, "a@county.gov", "p1"))
	require.NoError(t, s.Add(ctx, "b@county.gov", "p3"))

	ids, err = s.List(ctx, "a@county.gov")
	require.NoError(t, err)
	require.Equal(t, []string{"p1", "p2"}, ids)

	require.NoError(t, s.Remove(ctx, "a@county.gov", "p2"))
	require.NoError(t, s.Remove(ctx, "nobody", "p2"))

	ids, err = s.List(ctx, "a@county.gov")
	require.NoError(t, err)
	require.Equal(t, []string{"p1"}, ids)
}

func TestRedisStoreKey(t *testing.T) {
	require.Equal(t, "cop:favorites:a@county.gov", NewRedisStore(nil).key("a@county.gov"))
}
