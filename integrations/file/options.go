package file

import (
	"bufio"
	"io"
)

// DefaultMaxLineLength is the longest line accepted by default, longer lines fail the stream with bufio.ErrTooLong.
const DefaultMaxLineLength = 16 * 1024 * 1024

type Option func(*options)

type options struct {
	maxLineLength int
}

// WithMaxLineLength sets the longest accepted line, in bytes.
func WithMaxLineLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineLength = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxLineLength: DefaultMaxLineLength}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(64*1024, o.maxLineLength)), o.maxLineLength)
	return scanner
}
