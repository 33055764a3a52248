package stream

import (
	"context"
	"errors"
	"github.com/wjwei-handsome/rsam/internal/util"
	"io"
)

// Cursor is a single forward pass over an opened stream.
// Unlike Stream, a Cursor cannot be rewound: once an element was returned by Next it is gone.
type Cursor[T any] struct {
	s      Stream[T]
	cancel context.CancelFunc
	done   bool
	closed bool
}

// Open opens all the lifecycle elements of the stream and returns a cursor positioned before the first element.
// The caller must Close the cursor to release the underlying resources.
func (s Stream[T]) Open(ctx context.Context) (*Cursor[T], error) {
	cancelFunc, err := doOpenStream[T](ctx, s)
	if err != nil {
		return nil, err
	}
	return &Cursor[T]{s: s, cancel: cancelFunc}, nil
}

// Next returns the next element, or io.EOF once the stream is exhausted. io.EOF is sticky.
func (c *Cursor[T]) Next(ctx context.Context) (T, error) {
	if c.closed {
		return util.DefaultValue[T](), errors.New("cursor is closed")
	}
	if c.done {
		return util.DefaultValue[T](), io.EOF
	}
	if ctx.Err() != nil {
		return util.DefaultValue[T](), ctx.Err()
	}
	v, err := c.s.provider(ctx)
	if err != nil {
		if err == io.EOF {
			c.done = true
		}
		return util.DefaultValue[T](), err
	}
	return v, nil
}

// Close closes the stream lifecycle elements. Calling Close more than once is a no-op.
func (c *Cursor[T]) Close() {
	if c.closed {
		return
	}
	c.closed = true
	doCloseSubStream(c.s)
	c.cancel()
}
