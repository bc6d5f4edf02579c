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

// Package script assembles self-extracting shell scripts.
//
// A script is a shell preamble followed by the raw archive bytes:
//
//	#!/bin/sh
//	# header comment (optional)
//	<locate self and the original working directory, set the payload offset>
//	<pre-extraction script>
//	<create temp dir, set up cleanup traps, extract payload, cd>
//	<post-extraction script>
//	exit $?
//	__SELFEXTRACT_PAYLOAD__
//	<payload>
//
// The bootstrap needs the byte offset of the payload, which depends on the
// length of the preamble it's part of. The preamble is rendered with a fixed
// width placeholder, measured, and then the placeholder bytes are overwritten
// with the space padded offset, so the length never changes.
package script

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gohugoio/selfextract/internal/archives"
	"github.com/gohugoio/selfextract/staticfiles"
)

const (
	// Marker is the last line before the payload.
	Marker = "__SELFEXTRACT_PAYLOAD__"

	offsetPlaceholder = "__SELFEXTRACT_OFFSET__"
	offsetVar         = "SELFEXTRACT_OFFSET="
)

// Options configures the script.
type Options struct {
	// Settings describes the payload.
	Settings archives.Settings

	// PreExtract is run in the caller's working directory before extraction.
	PreExtract string

	// PostExtract is run in the extraction directory.
	PostExtract string

	// OmitHeader drops the "created with" comment.
	OmitHeader bool

	// Version is the tool version used in the header comment.
	Version string
}

// Preamble is the rendered shell part of a script.
type Preamble struct {
	b      []byte
	offset int64
}

// Bytes returns the preamble.
func (p Preamble) Bytes() []byte {
	return p.b
}

// Offset returns the zero-based byte offset of the payload in the final script,
// which is also the length of the preamble.
func (p Preamble) Offset() int64 {
	return p.offset
}

type templateData struct {
	Format     string
	Compressed bool
	OmitHeader bool
	Version    string
	Offset     string
	Marker     string
}

// Render renders the preamble for the given options.
func Render(opts Options) (Preamble, error) {
	if strings.TrimSpace(opts.PostExtract) == "" {
		return Preamble{}, errors.New("a post-extraction script is required")
	}

	data := templateData{
		Format:     opts.Settings.Format.String(),
		Compressed: opts.Settings.Compressed(),
		OmitHeader: opts.OmitHeader,
		Version:    opts.Version,
		Offset:     offsetPlaceholder,
		Marker:     Marker,
	}

	var buf bytes.Buffer
	execute := func(name string) error {
		if err := staticfiles.ScriptTemplate.ExecuteTemplate(&buf, name, data); err != nil {
			return fmt.Errorf("error rendering %s: %w", name, err)
		}
		return nil
	}

	if err := execute("header"); err != nil {
		return Preamble{}, err
	}

	// The user scripts may contain anything, so only look
	// for the placeholder in what locate rendered.
	start := buf.Len()
	if err := execute("locate"); err != nil {
		return Preamble{}, err
	}
	i := bytes.Index(buf.Bytes()[start:], []byte(offsetPlaceholder))
	if i == -1 {
		return Preamble{}, errors.New("script template has no offset placeholder")
	}
	pos := start + i

	writeScript(&buf, opts.PreExtract)

	if err := execute("bootstrap"); err != nil {
		return Preamble{}, err
	}

	writeScript(&buf, opts.PostExtract)

	if err := execute("trailer"); err != nil {
		return Preamble{}, err
	}

	offset := buf.Len()
	value := fmt.Sprintf("%-*d", len(offsetPlaceholder), offset)
	if len(value) != len(offsetPlaceholder) {
		return Preamble{}, fmt.Errorf("payload offset %d does not fit in placeholder", offset)
	}

	b := buf.Bytes()
	copy(b[pos:pos+len(offsetPlaceholder)], value)

	return Preamble{b: b, offset: int64(offset)}, nil
}

// Write writes the preamble followed by the payload to w.
// It returns the number of bytes written.
func Write(w io.Writer, p Preamble, payload io.Reader) (int64, error) {
	n, err := w.Write(p.b)
	if err != nil {
		return int64(n), err
	}
	m, err := io.Copy(w, payload)
	return int64(n) + m, err
}

// FindOffset reads the payload offset from the preamble of the script in r.
// The offset is set before the user scripts, so the first assignment is the one.
func FindOffset(r io.Reader) (int64, error) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if strings.HasPrefix(line, offsetVar) {
			return strconv.ParseInt(strings.TrimSpace(strings.TrimPrefix(line, offsetVar)), 10, 64)
		}
		if strings.TrimSuffix(line, "\n") == Marker {
			return 0, errors.New("no payload offset found")
		}
		if err != nil {
			if err == io.EOF {
				return 0, errors.New("no payload offset found")
			}
			return 0, err
		}
	}
}

// writeScript writes s followed by an empty line.
// The empty line ends a trailing line continuation in s.
func writeScript(buf *bytes.Buffer, s string) {
	if s == "" {
		return
	}
	buf.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
}
