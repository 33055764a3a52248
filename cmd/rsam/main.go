package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/fatih/color"
	"github.com/wjwei-handsome/rsam/sampling"
	"os"
)

var red = color.New(color.FgRed).SprintFunc()

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for usage errors, 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, sampling.ErrInvalidConfiguration) {
		return 2
	}
	return 1
}
