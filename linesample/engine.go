package linesample

import (
	"context"
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/wjwei-handsome/rsam/integrations/file"
	"github.com/wjwei-handsome/rsam/sampling"
	"github.com/wjwei-handsome/rsam/stream"
	"log/slog"
)

// Result describes a finished run.
type Result struct {
	Strategy Strategy

	// Population is the number of eligible lines. For a streaming run with an empty sample it is only
	// known when comment lines had to be collected, -1 otherwise.
	Population int
	Sampled    int
	Comments   int
	Seed       uint64
}

// Run samples the lines of in and writes comment lines followed by the sample to the sink returned by newSink.
//
// newSink is only called once the whole sample is held in memory, so no error met while reading the input
// ever creates, truncates or partially fills an output.
func Run(ctx context.Context, opts Options, in Input, newSink func() (Sink, error)) (Result, error) {
	log := opts.logger()
	if !in.replayable() && in.Reader == nil {
		return Result{}, fmt.Errorf("%w: no input files and no reader", sampling.ErrInvalidConfiguration)
	}

	strategy, err := opts.resolveStrategy(in)
	if err != nil {
		return Result{}, err
	}
	rng := opts.Rand
	if rng == nil {
		if rng, err = sampling.NewRand(); err != nil {
			return Result{}, err
		}
	}
	log.Debug("sampling run", slog.String("strategy", string(strategy)), slog.Uint64("seed", rng.Seed()))

	var fileOpts []file.Option
	if opts.MaxLineLength > 0 {
		fileOpts = append(fileOpts, file.WithMaxLineLength(opts.MaxLineLength))
	}

	r := &run{opts: opts, log: log, rng: rng, sinkFactory: newSink, result: Result{Strategy: strategy, Seed: rng.Seed()}}
	switch strategy {
	case StrategyTwoPass:
		src, cleanup, err := r.replayableSource(ctx, in, fileOpts)
		if err != nil {
			return Result{}, err
		}
		defer cleanup()
		err = r.twoPass(ctx, src)
		return r.result, err
	default:
		var src stream.Stream[string]
		if in.replayable() {
			src = file.StreamFromFiles(in.Paths, fileOpts...)
		} else {
			src = file.StreamFromReader(in.readerName(), in.Reader, fileOpts...)
		}
		err = r.singlePass(ctx, src)
		return r.result, err
	}
}

func (in Input) readerName() string {
	if in.ReaderName != "" {
		return in.ReaderName
	}
	return "stdin"
}

type run struct {
	opts        Options
	log         *slog.Logger
	rng         *sampling.Rand
	sinkFactory func() (Sink, error)
	result      Result
}

// replayableSource returns the files as is, or spools the one-shot reader to disk.
func (r *run) replayableSource(ctx context.Context, in Input, fileOpts []file.Option) (stream.Stream[string], func(), error) {
	if in.replayable() {
		return file.StreamFromFiles(in.Paths, fileOpts...), func() {}, nil
	}
	spool, err := file.SpoolReader(ctx, in.Reader, r.opts.SpoolDir)
	if err != nil {
		return stream.Stream[string]{}, nil, err
	}
	r.log.Info(fmt.Sprintf("spooled %s to %s (%s)", in.readerName(), spool.Path(), humanize.Bytes(uint64(spool.Size()))))
	return spool.Stream(fileOpts...), func() {
		if err := spool.Remove(); err != nil {
			r.log.Warn(fmt.Sprintf("failed to remove spool file %s: %v", spool.Path(), err))
		}
	}, nil
}

func (r *run) twoPass(ctx context.Context, src stream.Stream[string]) error {
	var comments []string
	n := 0
	err := src.Consume(ctx, func(line string) {
		if r.opts.isComment(line) {
			comments = append(comments, line)
			return
		}
		n++
	})
	if err != nil {
		return err
	}
	r.result.Population = n
	r.result.Comments = len(comments)
	r.log.Info(fmt.Sprintf("total line count: %s", humanize.Comma(int64(n))))

	k, err := r.opts.Size.Resolve(n)
	if err != nil {
		return err
	}
	if n == 0 {
		r.log.Warn("no data to sample")
	}
	r.log.Info(fmt.Sprintf("sample size: %s", humanize.Comma(int64(k))))

	sel, err := sampling.Select(n, k, r.rng)
	if err != nil {
		return err
	}

	eligible := src.Filter(func(line string) bool {
		return !r.opts.isComment(line)
	})
	sample := make([]string, 0, k)
	err = sampling.Replay[string](ctx, eligible, sel, func(line string) error {
		sample = append(sample, line)
		return nil
	})
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	return r.write(comments, sample)
}

func (r *run) singlePass(ctx context.Context, src stream.Stream[string]) error {
	k, _ := r.opts.Size.Count()

	var comments []string
	n := 0
	eligible := src.Filter(func(line string) bool {
		if r.opts.isComment(line) {
			comments = append(comments, line)
			return false
		}
		return true
	}).Peek(func(string) {
		n++
	})

	var sample []string
	switch {
	case k == 0 && r.opts.Comment != "":
		// nothing to sample, but the comment lines still have to be collected
		if err := eligible.Consume(ctx, func(string) {}); err != nil {
			return err
		}
		r.result.Population = n
	case k == 0:
		r.result.Population = -1
	default:
		var streamOpts []sampling.StreamOption
		if r.opts.PreserveOrder {
			streamOpts = append(streamOpts, sampling.WithPreservedOrder())
		}
		res, err := sampling.SampleFromStream(ctx, eligible, k, r.rng, streamOpts...)
		if err != nil {
			return err
		}
		sample = res.Values()
		r.result.Population = n
	}
	r.result.Comments = len(comments)
	if r.result.Population >= 0 {
		r.log.Info(fmt.Sprintf("total line count: %s", humanize.Comma(int64(r.result.Population))))
	}
	r.log.Info(fmt.Sprintf("sample size: %s", humanize.Comma(int64(len(sample)))))

	return r.write(comments, sample)
}

// write creates the sink, writes the comment lines then the sample, and commits.
// Nothing reaches the sink before the sample is complete. The sink is aborted on any failure.
func (r *run) write(comments, sample []string) error {
	sink, err := r.sinkFactory()
	if err != nil {
		return err
	}
	for _, lines := range [][]string{comments, sample} {
		for _, line := range lines {
			if err := sink.WriteLine(line); err != nil {
				sink.Abort()
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	if err := sink.Commit(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	r.result.Sampled = len(sample)
	return nil
}
