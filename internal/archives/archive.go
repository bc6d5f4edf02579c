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

package archives

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/gohugoio/selfextract/internal/archives/archiveformats"
	"github.com/gohugoio/selfextract/internal/archives/tarball"
	"github.com/gohugoio/selfextract/internal/archives/zip"
	"github.com/gohugoio/selfextract/internal/common/ioh"
)

// DefaultLevel selects the compression format's default level.
const DefaultLevel = -1

var (
	_ Archiver = (*tarball.Archive)(nil)
	_ Archiver = (*zip.Archive)(nil)
)

// Settings configures an archive.
type Settings struct {
	Format archiveformats.Format

	// Level is the compression level, 0-9 or DefaultLevel.
	// 0 means no compression.
	Level int

	// ModTime is set on all entries.
	ModTime time.Time
}

// Compressed reports whether the payload (for tar) or its entries (for zip) will be compressed.
func (s Settings) Compressed() bool {
	return s.Level != 0
}

// Extension returns the conventional file extension for the archive.
func (s Settings) Extension() string {
	switch s.Format {
	case archiveformats.Tar:
		if s.Compressed() {
			return ".tar.gz"
		}
		return ".tar"
	case archiveformats.Zip:
		return ".zip"
	default:
		return ""
	}
}

// New creates a new Archiver writing to out.
func New(settings Settings, out io.Writer) (Archiver, error) {
	if settings.Level < DefaultLevel || settings.Level > 9 {
		return nil, fmt.Errorf("compression level %d out of range 0-9", settings.Level)
	}
	switch settings.Format {
	case archiveformats.Tar:
		return tarball.New(out, settings.Level, settings.ModTime)
	case archiveformats.Zip:
		return zip.New(out, settings.Level, settings.ModTime)
	default:
		return nil, fmt.Errorf("unsupported archive format %q", settings.Format)
	}
}

type Archiver interface {
	// AddAndClose adds a file to the archive with the given mode, then closes it.
	AddAndClose(targetPath string, mode fs.FileMode, f ioh.File) error

	// Finalize finalizes the archive and flushes all writers in use.
	// It does not close the underlying writer.
	// It is not safe to call AddAndClose after Finalize.
	Finalize() error
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZip  = []byte("PK\x03\x04")
	magicTar  = []byte("ustar")
)

// HasMagic reports whether b starts with the magic bytes of an archive
// created with settings.
func HasMagic(settings Settings, b []byte) bool {
	switch settings.Format {
	case archiveformats.Tar:
		if settings.Compressed() {
			return bytes.HasPrefix(b, magicGzip)
		}
		const offset = 257
		return len(b) > offset && bytes.HasPrefix(b[offset:], magicTar)
	case archiveformats.Zip:
		return bytes.HasPrefix(b, magicZip)
	default:
		return false
	}
}
