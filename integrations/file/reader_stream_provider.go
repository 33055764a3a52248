package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/wjwei-handsome/rsam/stream"
	"io"
)

// ErrAlreadyConsumed is returned when a reader backed stream is opened a second time.
var ErrAlreadyConsumed = errors.New("reader stream can only be consumed once")

// StreamFromReader creates a stream of the lines of r. Unlike StreamFromFile the stream is not replayable:
// the reader is consumed by the first consumption, and opening the stream again fails with ErrAlreadyConsumed.
// name is only used in error messages.
func StreamFromReader(name string, r io.Reader, opts ...Option) stream.Stream[string] {
	o := buildOptions(opts)
	opened := false
	var scanner *bufio.Scanner

	return stream.NewSimpleStream(
		func(ctx context.Context) (string, error) {
			if scanner == nil {
				return "", io.ErrClosedPipe
			}
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if scanner.Scan() {
				return scanner.Text(), nil
			}
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("failed reading %s: %w", name, err)
			}
			return "", io.EOF
		},
		stream.WithOpenFuncOption(func(_ context.Context) error {
			if opened {
				return fmt.Errorf("%s: %w", name, ErrAlreadyConsumed)
			}
			opened = true
			scanner = o.newScanner(r)
			return nil
		}),
		stream.WithCloseFuncOption(func() {
			scanner = nil
		}),
	)
}
