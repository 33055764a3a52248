package sampling

import (
	"context"
	"fmt"
	"github.com/wjwei-handsome/rsam/stream"
	"slices"
)

// Selection is a set of distinct positions in [0, n), sorted ascending.
type Selection []int

// Select picks k distinct positions out of [0, n), every one of the C(n, k) subsets being equally likely.
//
// It runs a partial Fisher-Yates shuffle over the virtual array 0..n-1, keeping only the swapped
// cells in a map, so memory is O(k) whatever n is. No random value is drawn when k is 0.
func Select(n, k int, rng *Rand) (Selection, error) {
	if n < 0 || k < 0 {
		return nil, fmt.Errorf("%w: cannot select %d of %d positions", ErrInvalidConfiguration, k, n)
	}
	if k > n {
		return nil, fmt.Errorf("%w: requested %d of %d items", ErrSizeExceedsPopulation, k, n)
	}
	sel := make(Selection, k)
	if k == 0 {
		return sel, nil
	}

	swapped := make(map[int]int, k)
	valueAt := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		sel[i] = valueAt(j)
		swapped[j] = valueAt(i)
		// cell i is never visited again
		delete(swapped, i)
	}
	slices.Sort(sel)
	return sel, nil
}

// Replay scans src from the start and calls emit for every item whose position is in sel, in source order.
// The scan stops as soon as the last selected item was emitted.
func Replay[T any](ctx context.Context, src Replayable[T], sel Selection, emit func(T) error) error {
	if len(sel) == 0 {
		return nil
	}
	selected := make(map[int]struct{}, len(sel))
	for _, p := range sel {
		selected[p] = struct{}{}
	}

	pos := 0
	emitted := 0
	err := src.ConsumeWithErr(ctx, func(v T) error {
		if _, ok := selected[pos]; ok {
			if err := emit(v); err != nil {
				return err
			}
			emitted++
			if emitted == len(sel) {
				return stream.ErrStop
			}
		}
		pos++
		return nil
	})
	if err != nil {
		return err
	}
	if emitted != len(sel) {
		return fmt.Errorf(
			"%w: replay found %d items but position %d was selected, source changed between passes",
			ErrSizeExceedsPopulation, pos, sel[len(sel)-1],
		)
	}
	return nil
}
