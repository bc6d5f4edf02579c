package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/bep/logg"
	"github.com/gohugoio/selfextract/cmd/corecmd"
	"github.com/gohugoio/selfextract/internal/common/logging"
)

func main() {
	log.SetFlags(0)
	if err := parseAndRun(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func parseAndRun(args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "stacktrace from panic: \n"+string(debug.Stack()))
			err = fmt.Errorf("%v", r)
		}
	}()

	start := time.Now()

	rootCommand, core := corecmd.New()

	if err := rootCommand.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("error parsing command line: %w", err)
	}

	if err := core.Init(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("error parsing command line: %w", err)
	}

	defer func() {
		if err != nil {
			return
		}
		elapsed := time.Since(start)
		core.InfoLog.Log(logg.String(fmt.Sprintf("Total in %s …", logging.FormatBuildDuration(elapsed))))
	}()

	if err := rootCommand.Run(context.Background()); err != nil {
		return fmt.Errorf("error running command: %w", err)
	}

	return
}
