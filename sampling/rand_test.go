package sampling

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSeededRand_IsDeterministic(t *testing.T) {
	a := NewSeededRand(42)
	b := NewSeededRand(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Float64(), b.Float64())
		require.Equal(t, a.IntN(1000), b.IntN(1000))
	}
	require.Equal(t, 200, a.Draws())
	require.Equal(t, uint64(42), a.Seed())
}

func TestRand_Ranges(t *testing.T) {
	r, err := NewRand()
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)

		u := r.open01()
		require.Greater(t, u, 0.0)
		require.Less(t, u, 1.0)

		n := r.IntN(7)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 7)
	}
}
