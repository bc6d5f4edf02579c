// Copyright 2026 The Selfextract Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package packager builds self-extracting scripts from a validated request.
package packager

import (
	"fmt"
	"io"
	"time"

	"github.com/bep/logg"
	"github.com/gohugoio/selfextract/internal/archives"
	"github.com/gohugoio/selfextract/internal/common/ioh"
	"github.com/gohugoio/selfextract/internal/common/logging"
	"github.com/gohugoio/selfextract/internal/config"
	"github.com/gohugoio/selfextract/internal/entries"
	"github.com/gohugoio/selfextract/internal/script"
)

// ScriptMode is the file mode of script files written to disk.
const ScriptMode = 0o755

// Packager builds self-extracting scripts.
type Packager struct {
	infoLog logg.LevelLogger
	version string
	stdout  io.Writer
}

// New returns a new Packager.
// Scripts without an output filename are written to stdout.
func New(infoLog logg.LevelLogger, version string, stdout io.Writer) *Packager {
	return &Packager{
		infoLog: infoLog,
		version: version,
		stdout:  stdout,
	}
}

// Build builds the script described by req.
// The archive is encoded in full before the output is touched, and
// an output file is only in place if Build returns nil.
func (p *Packager) Build(req config.Request) error {
	es, err := entries.Resolve(req.Files, req.Root, req.Exclude)
	if err != nil {
		return err
	}

	settings := req.ArchiveSettings()
	settings.ModTime = time.Now().Truncate(time.Second)

	spool, cleanup, err := ioh.CreateSpool("selfextract-payload-*" + settings.Extension())
	if err != nil {
		return fmt.Errorf("error creating payload file: %w", err)
	}
	defer cleanup()

	if err := archives.Build(p.infoLog, settings, es, spool); err != nil {
		return err
	}

	preamble, err := script.Render(script.Options{
		Settings:    settings,
		PreExtract:  req.PreExtract,
		PostExtract: req.PostExtract,
		OmitHeader:  req.OmitHeader,
		Version:     p.version,
	})
	if err != nil {
		return err
	}

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return err
	}

	sink, name, err := p.openSink(req)
	if err != nil {
		return err
	}

	n, err := script.Write(sink, preamble, spool)
	if err != nil {
		sink.Abort()
		return fmt.Errorf("error writing script to %s: %w", name, err)
	}

	if err := sink.Commit(); err != nil {
		return fmt.Errorf("error writing script to %s: %w", name, err)
	}

	p.infoLog.WithField("output", name).
		WithField("entries", len(es)).
		WithField("offset", preamble.Offset()).
		WithField("size", logging.FormatSize(n)).
		Log(logg.String("Created script"))

	return nil
}

func (p *Packager) openSink(req config.Request) (ioh.Sink, string, error) {
	switch {
	case req.Try:
		return ioh.NewWriterSink(io.Discard), "/dev/null (try)", nil
	case req.ToStdout():
		return ioh.NewWriterSink(p.stdout), "stdout", nil
	default:
		sink, err := ioh.NewFileSink(req.Output, ScriptMode)
		if err != nil {
			return nil, "", fmt.Errorf("error creating output file: %w", err)
		}
		return sink, req.Output, nil
	}
}
