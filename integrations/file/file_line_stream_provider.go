package file

import (
	"bufio"
	"context"
	"fmt"
	"github.com/wjwei-handsome/rsam/stream"
	"io"
	"log/slog"
	"os"
)

// lineFileStreamProvider reads a text file line by line.
// The file is re-opened on every Open, so the resulting stream is replayable.
type lineFileStreamProvider struct {
	filePath string
	opts     options
	file     *os.File
	scanner  *bufio.Scanner
}

// StreamFromFile creates a lazy, replayable stream of the lines of a file, without their line terminators.
// A missing file fails the stream when it is consumed.
func StreamFromFile(filePath string, opts ...Option) stream.Stream[string] {
	return stream.NewStream[string](&lineFileStreamProvider{
		filePath: filePath,
		opts:     buildOptions(opts),
	})
}

// StreamFromFiles creates a lazy, replayable stream of the lines of all files, one after the other.
func StreamFromFiles(filePaths []string, opts ...Option) stream.Stream[string] {
	return stream.FlatMap(
		stream.Just(filePaths...),
		func(filePath string) stream.Stream[string] {
			return StreamFromFile(filePath, opts...)
		},
	)
}

// Open opens the file for reading and initializes the scanner.
func (fsp *lineFileStreamProvider) Open(_ context.Context) error {
	file, err := os.Open(fsp.filePath)
	if err != nil {
		return err
	}
	fsp.file = file
	fsp.scanner = fsp.opts.newScanner(file)
	return nil
}

// Close closes the file and releases any resources.
func (fsp *lineFileStreamProvider) Close() {
	if fsp.file != nil {
		err := fsp.file.Close()
		if err != nil {
			slog.Warn(fmt.Sprintf("error closing stream file %s: %v", fsp.filePath, err))
		}
		fsp.file = nil
		fsp.scanner = nil
	}
}

// Emit reads the next line from the file.
func (fsp *lineFileStreamProvider) Emit(ctx context.Context) (string, error) {
	if fsp.scanner == nil {
		// Emit is somehow called before Open, or after Close
		return "", os.ErrClosed
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if fsp.scanner.Scan() {
		return fsp.scanner.Text(), nil
	}
	if err := fsp.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed reading %s: %w", fsp.filePath, err)
	}
	return "", io.EOF
}
