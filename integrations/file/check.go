package file

import (
	"fmt"
	"go.uber.org/multierr"
	"os"
)

// CheckReadable verifies that every path exists and is a regular file, reporting all offending paths at once.
func CheckReadable(paths ...string) error {
	var err error
	for _, p := range paths {
		fi, statErr := os.Stat(p)
		if statErr != nil {
			err = multierr.Append(err, fmt.Errorf("input file %s: %w", p, statErr))
			continue
		}
		if fi.IsDir() {
			err = multierr.Append(err, fmt.Errorf("input file %s is a directory", p))
		}
	}
	return err
}
