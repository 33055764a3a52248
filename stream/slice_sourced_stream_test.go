package stream

import (
	"context"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestJust(t *testing.T) {
	ctx := context.Background()

	result, err := Just[string]().Collect(ctx)
	require.NoError(t, err)
	require.Empty(t, result)

	result, err = Just("a", "b", "c").Collect(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, result)
}

func TestJust_Replayable(t *testing.T) {
	s := Just(1, 2, 3)
	for i := 0; i < 3; i++ {
		require.Equal(t, []int{1, 2, 3}, s.MustCollect())
	}
}

func TestFromSlice_Snapshot(t *testing.T) {
	lines := []string{"one", "two", "three"}
	s := FromSlice(lines)

	lines[0] = "changed"
	require.Equal(t, []string{"one", "two", "three"}, s.MustCollect())
	require.Equal(t, "changed", lines[0])

	require.Empty(t, FromSlice([]int(nil)).MustCollect())
}

func TestFromSlice_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromSlice([]int{1, 2, 3}).Collect(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
