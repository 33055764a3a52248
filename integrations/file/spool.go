package file

import (
	"context"
	"fmt"
	"github.com/wjwei-handsome/rsam/stream"
	"go.uber.org/multierr"
	"io"
	"os"
)

// Spool is a temporary on-disk copy of a one-shot reader, turning it into a replayable source.
type Spool struct {
	path  string
	bytes int64
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// SpoolReader copies r into a new temporary file in dir (os.TempDir() when empty).
// The caller must Remove the spool once done.
func SpoolReader(ctx context.Context, r io.Reader, dir string) (*Spool, error) {
	f, err := os.CreateTemp(dir, "rsam-spool-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	n, err := io.Copy(f, ctxReader{ctx: ctx, r: r})
	if err != nil {
		err = multierr.Combine(err, f.Close(), os.Remove(f.Name()))
		return nil, fmt.Errorf("failed to spool input: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to close spool file: %w", err), os.Remove(f.Name()))
	}
	return &Spool{path: f.Name(), bytes: n}, nil
}

func (s *Spool) Path() string {
	return s.path
}

// Size returns the number of bytes spooled.
func (s *Spool) Size() int64 {
	return s.bytes
}

// Stream returns a replayable stream over the spooled lines.
func (s *Spool) Stream(opts ...Option) stream.Stream[string] {
	return StreamFromFile(s.path, opts...)
}

// Remove deletes the spool file.
func (s *Spool) Remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
