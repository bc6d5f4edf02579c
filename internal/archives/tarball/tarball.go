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

// Package tarball writes tar archives, optionally gzip compressed.
package tarball

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/gohugoio/selfextract/internal/common/ioh"
	"github.com/klauspost/compress/gzip"
)

// New creates a new tar archive writing to out.
// A level of 0 writes a plain tar stream, any other level (including
// gzip.DefaultCompression) compresses the stream with gzip.
func New(out io.Writer, level int, modTime time.Time) (*Archive, error) {
	archive := &Archive{
		modTime: modTime,
	}

	w := out
	if level != 0 {
		gw, err := gzip.NewWriterLevel(out, level)
		if err != nil {
			return nil, fmt.Errorf("invalid gzip compression level %d: %w", level, err)
		}
		archive.gw = gw
		w = gw
	}

	archive.tw = tar.NewWriter(w)

	return archive, nil
}

type Archive struct {
	gw      *gzip.Writer
	tw      *tar.Writer
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

	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     targetPath,
		Mode:     int64(mode.Perm()),
		Size:     info.Size(),
		ModTime:  a.modTime,
	}

	if err := a.tw.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(a.tw, f)

	return err
}

func (a *Archive) Finalize() error {
	if err := a.tw.Close(); err != nil {
		return err
	}
	if a.gw != nil {
		return a.gw.Close()
	}
	return nil
}
