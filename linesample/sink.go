package linesample

import (
	"bufio"
	"errors"
	"fmt"
	"go.uber.org/multierr"
	"io"
	"os"
	"path/filepath"
)

// StdoutName is the output name meaning "write to standard output".
const StdoutName = "stdout"

// ErrOutputExists is returned when the output file already exists and overwriting was not allowed.
var ErrOutputExists = errors.New("output file already exists")

// Sink receives the lines of a finished sample, each written followed by a line terminator.
type Sink interface {
	WriteLine(line string) error

	// Commit flushes everything written so far and makes it visible.
	Commit() error

	// Abort gives up on the output. A file sink removes everything written. A writer sink can only drop
	// what is still buffered, bytes already flushed to the writer stay there. It is a no-op after Commit.
	Abort()
}

type writerSink struct {
	w *bufio.Writer
}

// NewWriterSink writes lines to w through a buffer. The writer is not closed by Commit.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: bufio.NewWriterSize(w, 64*1024)}
}

func (s *writerSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *writerSink) Commit() error {
	return s.w.Flush()
}

func (s *writerSink) Abort() {
	s.w.Reset(io.Discard)
}

// CheckOutput verifies that path may be written. It reports whether the file already exists,
// which is an ErrOutputExists error unless rewrite is set.
func CheckOutput(path string, rewrite bool) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if fi.IsDir() {
		return true, fmt.Errorf("output %s is a directory", path)
	}
	if !rewrite {
		return true, fmt.Errorf("%w: %s, use rewrite to overwrite it", ErrOutputExists, path)
	}
	return true, nil
}

type fileSink struct {
	path string
	tmp  *os.File
	w    *bufio.Writer
	done bool
}

// NewFileSink writes to a temporary file next to path, which replaces path on Commit.
// A failed or aborted run never leaves a partial output file behind.
func NewFileSink(path string, rewrite bool) (Sink, error) {
	if _, err := CheckOutput(path, rewrite); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".rsam-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &fileSink{path: path, tmp: tmp, w: bufio.NewWriterSize(tmp, 64*1024)}, nil
}

func (s *fileSink) WriteLine(line string) error {
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *fileSink) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	err := multierr.Combine(
		s.w.Flush(),
		s.tmp.Chmod(0o644),
		s.tmp.Close(),
	)
	if err == nil {
		err = os.Rename(s.tmp.Name(), s.path)
	}
	if err != nil {
		return multierr.Append(
			fmt.Errorf("failed to write output %s: %w", s.path, err),
			removeIfExists(s.tmp.Name()),
		)
	}
	return nil
}

func (s *fileSink) Abort() {
	if s.done {
		return
	}
	s.done = true
	_ = s.tmp.Close()
	_ = removeIfExists(s.tmp.Name())
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
