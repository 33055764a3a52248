package sampling

import (
	"cmp"
	"context"
	"fmt"
	"github.com/wjwei-handsome/rsam/stream"
	"io"
	"math"
	"slices"
)

type StreamOption interface {
	streamOptionName() string
}

type preserveOrderOption struct{}

// WithPreservedOrder returns the sampled items in the order they appeared in the source,
// instead of the order left by the reservoir replacements.
func WithPreservedOrder() StreamOption {
	return preserveOrderOption{}
}

func (preserveOrderOption) streamOptionName() string {
	return "preserve-order"
}

type slot[T any] struct {
	pos   int
	value T
}

// Reservoir is the fixed capacity sample kept while a stream is consumed.
type Reservoir[T any] struct {
	slots []slot[T]
}

func newReservoir[T any](k int) *Reservoir[T] {
	return &Reservoir[T]{slots: make([]slot[T], 0, k)}
}

func (r *Reservoir[T]) Len() int {
	return len(r.slots)
}

// Values returns the sampled items in slot order.
func (r *Reservoir[T]) Values() []T {
	ret := make([]T, len(r.slots))
	for i, s := range r.slots {
		ret[i] = s.value
	}
	return ret
}

// Positions returns the source position of every slot, in slot order.
func (r *Reservoir[T]) Positions() []int {
	ret := make([]int, len(r.slots))
	for i, s := range r.slots {
		ret[i] = s.pos
	}
	return ret
}

func (r *Reservoir[T]) sortByPosition() {
	slices.SortFunc(r.slots, func(a, b slot[T]) int {
		return cmp.Compare(a.pos, b.pos)
	})
}

// SampleStream draws k items uniformly at random from src in a single forward pass using Algorithm L.
//
// The reservoir is filled with the first k items, then the number of items to skip before the next
// replacement is drawn from a geometric distribution driven by a running weight, so random values are
// drawn per replacement rather than per item.
// If src yields fewer than k items ErrPopulationExhausted is returned and no sample is produced.
// k == 0 returns an empty reservoir without reading src or drawing any random value.
func SampleStream[T any](ctx context.Context, src OnePass[T], k int, rng *Rand, options ...StreamOption) (*Reservoir[T], error) {
	preserveOrder := false
	for _, opt := range options {
		switch opt.(type) {
		case preserveOrderOption:
			preserveOrder = true
		default:
			return nil, fmt.Errorf("%w: unsupported stream option type: %T", ErrInvalidConfiguration, opt)
		}
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: sample size must not be negative, got %d", ErrInvalidConfiguration, k)
	}
	res := newReservoir[T](k)
	if k == 0 {
		return res, nil
	}

	pos := 0
	for pos < k {
		v, err := src.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: stream ended after %d of %d items", ErrPopulationExhausted, pos, k)
			}
			return nil, err
		}
		res.slots = append(res.slots, slot[T]{pos: pos, value: v})
		pos++
	}

	kf := float64(k)
	w := math.Exp(math.Log(rng.open01()) / kf)
	for {
		skip := skipLength(rng.open01(), w)

		// Discard skip-1 items, the next one is the replacement candidate
		var v T
		var err error
		for i := 0; i < skip; i++ {
			v, err = src.Next(ctx)
			if err != nil {
				break
			}
			pos++
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		res.slots[rng.IntN(k)] = slot[T]{pos: pos - 1, value: v}
		w *= math.Exp(math.Log(rng.open01()) / kf)
	}

	if preserveOrder {
		res.sortByPosition()
	}
	return res, nil
}

// SampleFromStream opens s, samples it with SampleStream and closes it.
func SampleFromStream[T any](ctx context.Context, s stream.Stream[T], k int, rng *Rand, options ...StreamOption) (*Reservoir[T], error) {
	if k <= 0 {
		return SampleStream[T](ctx, nil, k, rng, options...)
	}
	cursor, err := s.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()
	return SampleStream[T](ctx, cursor, k, rng, options...)
}

// skipLength returns floor(ln(u) / ln(1-w)) + 1, the distance to the next replaced item.
// Lengths that do not fit an int are capped, which reads the rest of any real stream.
func skipLength(u, w float64) int {
	g := math.Floor(math.Log(u)/math.Log1p(-w)) + 1
	if math.IsNaN(g) || g >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(g)
}
