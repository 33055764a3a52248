package linesample

import (
	"fmt"
	"github.com/wjwei-handsome/rsam/sampling"
	"io"
	"log/slog"
	"strings"
)

// Strategy selects how lines are sampled.
type Strategy string

const (
	// StrategyAuto uses two passes when the input can be read twice (files), and a single pass otherwise.
	// Standard input with a relative size is spooled to disk and sampled in two passes.
	StrategyAuto Strategy = "auto"

	// StrategyTwoPass counts the eligible lines, selects positions, then re-reads the input.
	// A one-shot input is spooled to a temporary file first.
	StrategyTwoPass Strategy = "two-pass"

	// StrategyStream samples in a single pass with Algorithm L. Relative sizes are not supported.
	StrategyStream Strategy = "stream"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyAuto, StrategyTwoPass, StrategyStream:
		return st, nil
	case "":
		return StrategyAuto, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q, expected one of auto, two-pass, stream", sampling.ErrInvalidConfiguration, s)
	}
}

// Options is the validated configuration of one sampling run.
type Options struct {
	Size sampling.Size

	// Comment is the prefix marking lines that are passed through ahead of the sample instead of being sampled.
	// Empty disables filtering.
	Comment string

	Strategy Strategy

	// PreserveOrder keeps the streaming sample in input order. Two-pass samples are always in input order.
	PreserveOrder bool

	// MaxLineLength is the longest accepted line in bytes, 0 means the default.
	MaxLineLength int

	// SpoolDir is where one-shot input is spooled for two-pass sampling, empty means the system temp dir.
	SpoolDir string

	// Rand is the generator of the run, nil means a freshly seeded one.
	Rand *sampling.Rand

	Logger *slog.Logger
}

// Input is what to sample: files, read twice when needed, or a one-shot reader used when Paths is empty.
type Input struct {
	Paths []string

	Reader     io.Reader
	ReaderName string
}

func (in Input) replayable() bool {
	return len(in.Paths) > 0
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) isComment(line string) bool {
	return o.Comment != "" && strings.HasPrefix(line, o.Comment)
}

// resolveStrategy picks the concrete strategy for the input, auto is never returned.
func (o Options) resolveStrategy(in Input) (Strategy, error) {
	st := o.Strategy
	if st == "" {
		st = StrategyAuto
	}
	switch st {
	case StrategyAuto:
		if in.replayable() || o.Size.IsRelative() {
			return StrategyTwoPass, nil
		}
		return StrategyStream, nil
	case StrategyTwoPass:
		return st, nil
	case StrategyStream:
		if o.Size.IsRelative() {
			return "", fmt.Errorf(
				"%w: relative size %s needs the line count, which a single pass does not know",
				sampling.ErrInvalidConfiguration, o.Size,
			)
		}
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", sampling.ErrInvalidConfiguration, st)
	}
}
