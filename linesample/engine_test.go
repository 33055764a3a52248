package linesample

import (
	"bytes"
	"context"
	"github.com/stretchr/testify/require"
	"github.com/wjwei-handsome/rsam/sampling"
	"github.com/wjwei-handsome/rsam/stream"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeInput(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func mustSize(t *testing.T, s string) sampling.Size {
	t.Helper()
	size, err := sampling.ParseSize(s)
	require.NoError(t, err)
	return size
}

func bufferSink(buf *bytes.Buffer) func() (Sink, error) {
	return func() (Sink, error) {
		return NewWriterSink(buf), nil
	}
}

func outputLines(buf *bytes.Buffer) []string {
	s := strings.TrimSuffix(buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// requireSubsequence checks that got is made of distinct items of all, in the same relative order.
func requireSubsequence(t *testing.T, all, got []string) {
	t.Helper()
	i := 0
	for _, g := range got {
		for i < len(all) && all[i] != g {
			i++
		}
		require.Less(t, i, len(all), "%q is not in order or not part of %v", g, all)
		i++
	}
}

func TestRun_TwoPassFiles(t *testing.T) {
	p := writeInput(t, t.TempDir(), "in.txt", "a", "b", "c", "d", "e")

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "3"), Rand: sampling.NewSeededRand(1)},
		Input{Paths: []string{p}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyTwoPass, res.Strategy)
	require.Equal(t, 5, res.Population)
	require.Equal(t, 3, res.Sampled)

	got := outputLines(&buf)
	require.Len(t, got, 3)
	requireSubsequence(t, []string{"a", "b", "c", "d", "e"}, got)
}

func TestRun_CommentLinesFirst(t *testing.T) {
	p := writeInput(t, t.TempDir(), "in.txt", "#hdr", "x", "y", "z")

	for seed := uint64(0); seed < 20; seed++ {
		var buf bytes.Buffer
		res, err := Run(context.Background(), Options{
			Size:    mustSize(t, "2"),
			Comment: "#",
			Rand:    sampling.NewSeededRand(seed),
		}, Input{Paths: []string{p}}, bufferSink(&buf))
		require.NoError(t, err)
		require.Equal(t, 3, res.Population)
		require.Equal(t, 1, res.Comments)

		got := outputLines(&buf)
		require.Len(t, got, 3)
		require.Equal(t, "#hdr", got[0])
		requireSubsequence(t, []string{"x", "y", "z"}, got[1:])
	}
}

func TestRun_WholePopulationInOrder(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4"}
	p := writeInput(t, t.TempDir(), "in.txt", lines...)

	var buf bytes.Buffer
	_, err := Run(context.Background(), Options{Size: mustSize(t, "1.0")}, Input{Paths: []string{p}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, lines, outputLines(&buf))
}

func TestRun_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	p1 := writeInput(t, dir, "1.txt", "#one", "a", "b")
	p2 := writeInput(t, dir, "2.txt", "c", "#two", "d")

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "4"), Comment: "#"},
		Input{Paths: []string{p1, p2}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, 4, res.Population)
	require.Equal(t, []string{"#one", "#two", "a", "b", "c", "d"}, outputLines(&buf))
}

func TestRun_SizeExceedsPopulation(t *testing.T) {
	dir := t.TempDir()
	p := writeInput(t, dir, "in.txt", "a", "b")
	out := filepath.Join(dir, "out.txt")

	_, err := Run(context.Background(), Options{Size: mustSize(t, "3")}, Input{Paths: []string{p}},
		func() (Sink, error) {
			return NewFileSink(out, false)
		})
	require.ErrorIs(t, err, sampling.ErrSizeExceedsPopulation)
	_, err = os.Stat(out)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRun_ZeroSizeDrawsNothing(t *testing.T) {
	p := writeInput(t, t.TempDir(), "in.txt", "#c", "a", "b")

	rng := sampling.NewSeededRand(3)
	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "0"), Comment: "#", Rand: rng},
		Input{Paths: []string{p}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, 0, res.Sampled)
	require.Equal(t, []string{"#c"}, outputLines(&buf))
	require.Equal(t, 0, rng.Draws())

	rng = sampling.NewSeededRand(3)
	buf.Reset()
	res, err = Run(context.Background(), Options{Size: mustSize(t, "0"), Comment: "#", Rand: rng},
		Input{Reader: strings.NewReader("#c\na\nb\n")}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyStream, res.Strategy)
	require.Equal(t, 2, res.Population)
	require.Equal(t, []string{"#c"}, outputLines(&buf))
	require.Equal(t, 0, rng.Draws())
}

func TestRun_EmptyInput(t *testing.T) {
	p := writeInput(t, t.TempDir(), "in.txt")

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "0.5")}, Input{Paths: []string{p}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, 0, res.Population)
	require.Empty(t, outputLines(&buf))

	_, err = Run(context.Background(), Options{Size: mustSize(t, "1")}, Input{Paths: []string{p}}, bufferSink(&buf))
	require.ErrorIs(t, err, sampling.ErrSizeExceedsPopulation)
}

func TestRun_StdinStreaming(t *testing.T) {
	input := "#h\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	all := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{
		Size:          mustSize(t, "4"),
		Comment:       "#",
		PreserveOrder: true,
		Rand:          sampling.NewSeededRand(8),
	}, Input{Reader: strings.NewReader(input)}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyStream, res.Strategy)
	require.Equal(t, 10, res.Population)
	require.Equal(t, 4, res.Sampled)

	got := outputLines(&buf)
	require.Len(t, got, 5)
	require.Equal(t, "#h", got[0])
	requireSubsequence(t, all, got[1:])
}

func TestRun_StdinStreamingDeterministic(t *testing.T) {
	run := func() string {
		var buf bytes.Buffer
		_, err := Run(context.Background(), Options{Size: mustSize(t, "2"), Rand: sampling.NewSeededRand(42)},
			Input{Reader: strings.NewReader("1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")}, bufferSink(&buf))
		require.NoError(t, err)
		return buf.String()
	}
	first := run()
	require.Len(t, strings.Split(strings.TrimSpace(first), "\n"), 2)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, run())
	}
}

func TestRun_StdinPopulationExhausted(t *testing.T) {
	called := false
	_, err := Run(context.Background(), Options{Size: mustSize(t, "5")},
		Input{Reader: strings.NewReader("a\nb\n")}, func() (Sink, error) {
			called = true
			return NewWriterSink(&bytes.Buffer{}), nil
		})
	require.ErrorIs(t, err, sampling.ErrPopulationExhausted)
	require.False(t, called)
}

func TestRun_StdinRelativeIsSpooled(t *testing.T) {
	spoolDir := t.TempDir()

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "0.5"), SpoolDir: spoolDir},
		Input{Reader: strings.NewReader("a\nb\nc\nd\n")}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyTwoPass, res.Strategy)
	require.Equal(t, 4, res.Population)

	got := outputLines(&buf)
	require.Len(t, got, 2)
	requireSubsequence(t, []string{"a", "b", "c", "d"}, got)

	entries, err := os.ReadDir(spoolDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTwoPass_SourceShrinksBeforeReplay(t *testing.T) {
	lines := make([]string, 20000)
	for i := range lines {
		lines[i] = strings.Repeat("x", 32)
	}

	// the second open sees only half of the lines
	opens := 0
	var remaining []string
	src := stream.NewSimpleStream(func(_ context.Context) (string, error) {
		if len(remaining) == 0 {
			return "", io.EOF
		}
		line := remaining[0]
		remaining = remaining[1:]
		return line, nil
	}, stream.WithOpenFuncOption(func(_ context.Context) error {
		opens++
		remaining = lines
		if opens > 1 {
			remaining = lines[:len(lines)/2]
		}
		return nil
	}))

	var buf bytes.Buffer
	sinkCalls := 0
	r := &run{
		opts: Options{Size: mustSize(t, "1.0")},
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng:  sampling.NewSeededRand(7),
		sinkFactory: func() (Sink, error) {
			sinkCalls++
			return NewWriterSink(&buf), nil
		},
	}
	err := r.twoPass(context.Background(), src)
	require.ErrorIs(t, err, sampling.ErrSizeExceedsPopulation)
	require.ErrorContains(t, err, "source changed between passes")
	require.Equal(t, 2, opens)
	require.Zero(t, sinkCalls)
	require.Zero(t, buf.Len())
	require.Zero(t, r.result.Sampled)
}

func TestRun_ForcedStrategies(t *testing.T) {
	p := writeInput(t, t.TempDir(), "in.txt", "a", "b", "c")

	var buf bytes.Buffer
	res, err := Run(context.Background(), Options{Size: mustSize(t, "2"), Strategy: StrategyStream, PreserveOrder: true},
		Input{Paths: []string{p}}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyStream, res.Strategy)
	requireSubsequence(t, []string{"a", "b", "c"}, outputLines(&buf))

	_, err = Run(context.Background(), Options{Size: mustSize(t, "0.5"), Strategy: StrategyStream},
		Input{Paths: []string{p}}, bufferSink(&buf))
	require.ErrorIs(t, err, sampling.ErrInvalidConfiguration)

	buf.Reset()
	res, err = Run(context.Background(), Options{Size: mustSize(t, "3"), Strategy: StrategyTwoPass, SpoolDir: t.TempDir()},
		Input{Reader: strings.NewReader("a\nb\nc\n")}, bufferSink(&buf))
	require.NoError(t, err)
	require.Equal(t, StrategyTwoPass, res.Strategy)
	require.Equal(t, []string{"a", "b", "c"}, outputLines(&buf))
}

func TestRun_MissingInput(t *testing.T) {
	_, err := Run(context.Background(), Options{Size: mustSize(t, "1")},
		Input{Paths: []string{filepath.Join(t.TempDir(), "missing.txt")}}, bufferSink(&bytes.Buffer{}))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Run(context.Background(), Options{Size: mustSize(t, "1")}, Input{}, bufferSink(&bytes.Buffer{}))
	require.ErrorIs(t, err, sampling.ErrInvalidConfiguration)
}

func TestParseStrategy(t *testing.T) {
	for in, expected := range map[string]Strategy{
		"":         StrategyAuto,
		"auto":     StrategyAuto,
		"Two-Pass": StrategyTwoPass,
		"stream":   StrategyStream,
	} {
		st, err := ParseStrategy(in)
		require.NoError(t, err)
		require.Equal(t, expected, st)
	}
	_, err := ParseStrategy("reservoir")
	require.ErrorIs(t, err, sampling.ErrInvalidConfiguration)
}
