package sampling

import "context"

// Replayable is a source that can be scanned from its start any number of times.
// Every call to ConsumeWithErr visits the same items in the same order.
// stream.Stream satisfies it when built on re-openable resources.
type Replayable[T any] interface {
	ConsumeWithErr(ctx context.Context, f func(T) error) error
}

// OnePass is a forward-only source. Next returns io.EOF once the source is exhausted.
// stream.Cursor satisfies it.
type OnePass[T any] interface {
	Next(ctx context.Context) (T, error)
}
