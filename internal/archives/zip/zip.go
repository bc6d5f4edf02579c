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

package zip

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/gohugoio/selfextract/internal/common/ioh"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// New creates a new zip archive writing to out.
// Entries are stored uncompressed if level is 0, else deflated at that level.
func New(out io.Writer, level int, modTime time.Time) (*Archive, error) {
	archive := &Archive{
		zipw:    zip.NewWriter(out),
		method:  zip.Deflate,
		modTime: modTime,
	}

	if level == 0 {
		archive.method = zip.Store
		return archive, nil
	}

	// Fail early on bad levels; the compressor func is called lazily.
	if _, err := flate.NewWriter(io.Discard, level); err != nil {
		return nil, fmt.Errorf("invalid deflate compression level %d: %w", level, err)
	}

	archive.zipw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	return archive, nil
}

type Archive struct {
	zipw    *zip.Writer
	method  uint16
	modTime time.Time
}

func (a *Archive) AddAndClose(targetPath string, mode fs.FileMode, f ioh.File) error {
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: not a regular file", f.Name())
	}

	header := &zip.FileHeader{
		Name:     targetPath,
		Method:   a.method,
		Modified: a.modTime,
	}
	header.SetMode(mode.Perm())

	zw, err := a.zipw.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(zw, f)

	return err
}

func (a *Archive) Finalize() error {
	return a.zipw.Close()
}
