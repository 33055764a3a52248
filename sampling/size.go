package sampling

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size is either an absolute number of items or a fraction of the population.
// The zero value is an absolute size of 0.
type Size struct {
	relative bool
	count    int
	fraction float64
}

// Absolute returns a size requesting exactly count items.
func Absolute(count int) (Size, error) {
	if count < 0 {
		return Size{}, fmt.Errorf("%w: absolute size must not be negative, got %d", ErrInvalidConfiguration, count)
	}
	return Size{count: count}, nil
}

// Relative returns a size requesting floor(n*fraction) items of a population of n.
// The fraction must lie in (0, 1], a fraction above 1 can never be satisfied whatever n turns out to be.
func Relative(fraction float64) (Size, error) {
	if math.IsNaN(fraction) || fraction <= 0 || fraction > 1 {
		return Size{}, fmt.Errorf("%w: relative size must be in (0, 1], got %v", ErrInvalidConfiguration, fraction)
	}
	return Size{relative: true, fraction: fraction}, nil
}

// ParseSize parses a size given as text. A value containing a dot is a relative fraction ("0.25"),
// anything else is an absolute count ("1000").
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Size{}, fmt.Errorf("%w: size is empty", ErrInvalidConfiguration)
	}
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Size{}, fmt.Errorf("%w: size %q is not a number", ErrInvalidConfiguration, s)
		}
		return Relative(f)
	}
	c, err := strconv.Atoi(s)
	if err != nil {
		return Size{}, fmt.Errorf("%w: size %q is not a number", ErrInvalidConfiguration, s)
	}
	return Absolute(c)
}

// IsRelative reports whether the size depends on the population size.
func (s Size) IsRelative() bool {
	return s.relative
}

// Count returns the absolute count, ok is false for relative sizes.
func (s Size) Count() (count int, ok bool) {
	if s.relative {
		return 0, false
	}
	return s.count, true
}

// Resolve returns the concrete number of items to sample from a population of n.
func (s Size) Resolve(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: population must not be negative, got %d", ErrInvalidConfiguration, n)
	}
	k := s.count
	if s.relative {
		k = int(math.Floor(float64(n) * s.fraction))
	}
	if k > n {
		return 0, fmt.Errorf("%w: requested %d of %d items", ErrSizeExceedsPopulation, k, n)
	}
	return k, nil
}

func (s Size) String() string {
	if s.relative {
		return strconv.FormatFloat(s.fraction, 'g', -1, 64)
	}
	return strconv.Itoa(s.count)
}
