package archives

import (
	"fmt"
	"io"
	"os"

	"github.com/bep/logg"
	"github.com/gohugoio/selfextract/internal/entries"
)

// Build writes an archive with the given entries to out.
// The source files are opened one by one, in order, right before they're added,
// and the first error aborts the build. On error, out will hold a partial archive.
func Build(infoLogger logg.LevelLogger, settings Settings, es []entries.Entry, out io.Writer) error {
	archiver, err := New(settings, out)
	if err != nil {
		return err
	}

	for _, e := range es {
		f, err := os.Open(e.SourcePath)
		if err != nil {
			return fmt.Errorf("error archiving %q: %w", e.Name, err)
		}
		infoLogger.WithField("entry", e.Name).WithField("mode", e.Mode).Log(logg.String("Adding"))
		if err := archiver.AddAndClose(e.Name, e.Mode, f); err != nil {
			return fmt.Errorf("error archiving %q from %q: %w", e.Name, e.SourcePath, err)
		}
	}

	if err := archiver.Finalize(); err != nil {
		return fmt.Errorf("error finalizing archive: %w", err)
	}

	return nil
}
