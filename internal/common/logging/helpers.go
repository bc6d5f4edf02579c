package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/bep/logg"
	"github.com/mattn/go-isatty"
)

// FormatBuildDuration formats a duration to a string on the form expected in "Total in ..." etc.
func FormatBuildDuration(d time.Duration) string {
	if d.Milliseconds() < 2000 {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// FormatSize formats n bytes in a human readable way.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// IsTerminal return true if the file descriptor is terminal and the TERM
// environment variable isn't a dumb one.
func IsTerminal(f *os.File) bool {
	if runtime.GOOS == "windows" {
		return false
	}
	if os.Getenv("CI") != "" {
		return true
	}

	fd := f.Fd()
	return os.Getenv("TERM") != "dumb" && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// NewHandler returns a coloured handler if f is a terminal, a plain one if not.
// If quiet is set, only warnings and errors are written.
func NewHandler(f *os.File, quiet bool) logg.Handler {
	var w io.Writer = f
	var h logg.Handler
	if IsTerminal(f) {
		h = NewDefaultHandler(w)
	} else {
		h = NewNoColoursHandler(w)
	}
	if !quiet {
		return h
	}
	return logg.HandlerFunc(func(e *logg.Entry) error {
		if e.Level < logg.LevelWarn {
			return nil
		}
		return h.HandleLog(e)
	})
}

// Replacer creates a new log handler that does string replacement in log messages.
func Replacer(repl *strings.Replacer) logg.Handler {
	return logg.HandlerFunc(func(e *logg.Entry) error {
		e.Message = repl.Replace(e.Message)
		for i, field := range e.Fields {
			if s, ok := field.Value.(string); ok {
				e.Fields[i].Value = repl.Replace(s)
			}
		}
		return nil
	})
}
