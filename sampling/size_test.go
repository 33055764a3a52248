package sampling

import (
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseSize(t *testing.T) {
	s, err := ParseSize("3")
	require.NoError(t, err)
	require.False(t, s.IsRelative())
	c, ok := s.Count()
	require.True(t, ok)
	require.Equal(t, 3, c)

	s, err = ParseSize(" 0.25 ")
	require.NoError(t, err)
	require.True(t, s.IsRelative())
	_, ok = s.Count()
	require.False(t, ok)
	require.Equal(t, "0.25", s.String())

	s, err = ParseSize("1.0")
	require.NoError(t, err)
	require.True(t, s.IsRelative())

	s, err = ParseSize("0")
	require.NoError(t, err)
	require.Equal(t, "0", s.String())
}

func TestParseSize_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.5", "-1", "-0.5", "0.0", "1e3", "1.2.3", "NaN."} {
		_, err := ParseSize(in)
		require.ErrorIs(t, err, ErrInvalidConfiguration, "input %q", in)
	}
}

func TestSize_Resolve(t *testing.T) {
	abs, err := Absolute(3)
	require.NoError(t, err)
	k, err := abs.Resolve(5)
	require.NoError(t, err)
	require.Equal(t, 3, k)

	rel, err := Relative(0.5)
	require.NoError(t, err)
	k, err = rel.Resolve(7)
	require.NoError(t, err)
	require.Equal(t, 3, k)

	k, err = rel.Resolve(0)
	require.NoError(t, err)
	require.Equal(t, 0, k)

	whole, err := Relative(1)
	require.NoError(t, err)
	k, err = whole.Resolve(7)
	require.NoError(t, err)
	require.Equal(t, 7, k)
}

func TestSize_Resolve_ExceedsPopulation(t *testing.T) {
	abs, err := Absolute(6)
	require.NoError(t, err)
	_, err = abs.Resolve(5)
	require.ErrorIs(t, err, ErrSizeExceedsPopulation)

	_, err = abs.Resolve(-1)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestSize_Resolve_Idempotent(t *testing.T) {
	for _, in := range []string{"0", "4", "0.3", "0.999", "1.0"} {
		s, err := ParseSize(in)
		require.NoError(t, err)
		for _, n := range []int{0, 4, 10, 1001} {
			k1, err1 := s.Resolve(n)
			k2, err2 := s.Resolve(n)
			require.Equal(t, k1, k2)
			require.Equal(t, err1, err2)
		}
	}
}

func TestRelative_OutOfRange(t *testing.T) {
	_, err := Relative(1.01)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = Relative(0)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = Absolute(-2)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}
