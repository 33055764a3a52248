// Package logging builds the process logger from flags and an optional YAML config file.
package logging

import (
	"bytes"
	"fmt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
	"os"
	"strings"
)

// FileConfig configures a rotated log file, written in addition to the console.
type FileConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type Config struct {
	Level  string      `yaml:"level"`
	Format string      `yaml:"format"`
	File   *FileConfig `yaml:"file"`
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// LoadConfig reads a YAML logging config, fields missing from the file keep their default value.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	content, err := os.ReadFile(path)
	if err != nil {
		return conf, fmt.Errorf("failed to read log config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&conf); err != nil && err != io.EOF {
		return conf, fmt.Errorf("failed to parse log config %s: %w", path, err)
	}
	return conf, nil
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

type nopCloser struct{}

func (nopCloser) Close() error {
	return nil
}

// New returns a logger writing to console, and to the rotated file when configured.
// The returned closer releases the log file.
func New(conf Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(conf.Level)
	if err != nil {
		return nil, nil, err
	}

	w := console
	var closer io.Closer = nopCloser{}
	if conf.File != nil && conf.File.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   conf.File.Path,
			MaxSize:    conf.File.MaxSizeMB,
			MaxBackups: conf.File.MaxBackups,
			MaxAge:     conf.File.MaxAgeDays,
			Compress:   conf.File.Compress,
		}
		w = io.MultiWriter(console, lj)
		closer = lj
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(conf.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q, expected text or json", conf.Format)
	}
	return slog.New(handler), closer, nil
}
