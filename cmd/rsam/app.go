package main

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"github.com/wjwei-handsome/rsam/integrations/file"
	"github.com/wjwei-handsome/rsam/internal/logging"
	"github.com/wjwei-handsome/rsam/linesample"
	"github.com/wjwei-handsome/rsam/sampling"
	"io"
	"log/slog"
)

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	return &cli.App{
		Name:      "rsam",
		Usage:     "randomly sample lines from text files or standard input",
		ArgsUsage: "[input files...]",
		Description: `Draws a uniformly random subset of lines. Files are counted first and then re-read,
so only the sample is held in memory. Standard input is sampled in a single pass with a
reservoir, or spooled to disk when the size is a fraction.

  rsam -s 1000 data.txt
  rsam -s 0.1 -c '#' -o sample.vcf calls.vcf
  cat big.log | rsam -s 50`,
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "size",
				Aliases:  []string{"s"},
				Usage:    "number of lines to sample (integer) or fraction of all lines (number with a dot, e.g. 0.1)",
				EnvVars:  []string{"RSAM_SIZE"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   linesample.StdoutName,
				Usage:   "output file name, stdout for standard output",
				EnvVars: []string{"RSAM_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "comment",
				Aliases: []string{"c"},
				Usage:   "prefix of comment lines, which are copied ahead of the sample instead of being sampled",
				EnvVars: []string{"RSAM_COMMENT"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log warnings and errors",
			},
			&cli.BoolFlag{
				Name:    "rewrite",
				Aliases: []string{"r"},
				Usage:   "overwrite the output file if it exists",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Value:   string(linesample.StrategyAuto),
				Usage:   "sampling strategy: auto, two-pass or stream",
				EnvVars: []string{"RSAM_STRATEGY"},
			},
			&cli.BoolFlag{
				Name:  "keep-order",
				Value: true,
				Usage: "keep a single pass sample in input order",
			},
			&cli.Uint64Flag{
				Name:    "seed",
				Usage:   "seed of the random generator, for reproducible samples",
				EnvVars: []string{"RSAM_SEED"},
			},
			&cli.IntFlag{
				Name:  "max-line-length",
				Value: file.DefaultMaxLineLength,
				Usage: "longest accepted line, in bytes",
			},
			&cli.StringFlag{
				Name:    "spool-dir",
				Usage:   "directory for spooling standard input, defaults to the system temp dir",
				EnvVars: []string{"RSAM_SPOOL_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level: debug, info, warn or error (overrides the log config)",
				EnvVars: []string{"RSAM_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format: text or json (overrides the log config)",
				EnvVars: []string{"RSAM_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "log-config",
				Usage:   "YAML logging config file",
				EnvVars: []string{"RSAM_LOG_CONFIG"},
			},
		},
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return fmt.Errorf("%w: %v", sampling.ErrInvalidConfiguration, err)
		},
		Action: a.run,
	}
}

func (a *app) logger(c *cli.Context) (*slog.Logger, io.Closer, error) {
	conf := logging.DefaultConfig()
	if p := c.String("log-config"); p != "" {
		var err error
		if conf, err = logging.LoadConfig(p); err != nil {
			return nil, nil, err
		}
	}
	if l := c.String("log-level"); l != "" {
		conf.Level = l
	}
	if f := c.String("log-format"); f != "" {
		conf.Format = f
	}
	if c.Bool("quiet") {
		conf.Level = "warn"
	}
	logger, closer, err := logging.New(conf, a.stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", sampling.ErrInvalidConfiguration, err)
	}
	return logger, closer, nil
}

func (a *app) run(c *cli.Context) error {
	if !c.IsSet("size") {
		return fmt.Errorf("%w: required flag \"size\" not set", sampling.ErrInvalidConfiguration)
	}
	logger, closer, err := a.logger(c)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info(fmt.Sprintf("input size: %q", c.String("size")))
	size, err := sampling.ParseSize(c.String("size"))
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("parsed size: %s", size))

	strategy, err := linesample.ParseStrategy(c.String("strategy"))
	if err != nil {
		return err
	}

	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		logger.Info("input from stdin")
	} else {
		logger.Info(fmt.Sprintf("input files: %v", inputs))
		if err := file.CheckReadable(inputs...); err != nil {
			return err
		}
	}

	output := c.String("output")
	rewrite := c.Bool("rewrite")
	logger.Info(fmt.Sprintf("output to: %s", output))
	if output != linesample.StdoutName {
		exists, err := linesample.CheckOutput(output, rewrite)
		if err != nil {
			return err
		}
		if exists {
			logger.Warn(fmt.Sprintf("file %s exists, will rewrite it", output))
		}
	}
	if comment := c.String("comment"); comment != "" {
		logger.Info(fmt.Sprintf("comment prefix: %q", comment))
	}

	opts := linesample.Options{
		Size:          size,
		Comment:       c.String("comment"),
		Strategy:      strategy,
		PreserveOrder: c.Bool("keep-order"),
		MaxLineLength: c.Int("max-line-length"),
		SpoolDir:      c.String("spool-dir"),
		Logger:        logger,
	}
	if c.IsSet("seed") {
		opts.Rand = sampling.NewSeededRand(c.Uint64("seed"))
	}

	in := linesample.Input{Paths: inputs}
	if len(inputs) == 0 {
		in.Reader = a.stdin
		in.ReaderName = "stdin"
	}

	res, err := linesample.Run(c.Context, opts, in, func() (linesample.Sink, error) {
		if output == linesample.StdoutName {
			return linesample.NewWriterSink(a.stdout), nil
		}
		return linesample.NewFileSink(output, rewrite)
	})
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf(
		"done: %s sampled lines, %s comment lines, strategy %s, seed %d",
		humanize.Comma(int64(res.Sampled)), humanize.Comma(int64(res.Comments)), res.Strategy, res.Seed,
	))
	return nil
}
