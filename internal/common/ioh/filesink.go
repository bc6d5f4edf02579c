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

//go:build !windows

package ioh

import (
	"io/fs"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// NewFileSink returns a Sink that writes to a temporary file next to filename.
// On Commit the temporary file gets the permissions perm and replaces filename.
// On Abort the temporary file is removed, leaving any existing filename untouched.
func NewFileSink(filename string, perm fs.FileMode) (*FileSink, error) {
	f, err := renameio.TempFile(filepath.Dir(filename), filename)
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, perm: perm}, nil
}

// FileSink is an atomic file Sink.
type FileSink struct {
	f    *renameio.PendingFile
	perm fs.FileMode
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *FileSink) Commit() error {
	if err := s.f.Chmod(s.perm); err != nil {
		s.f.Cleanup()
		return err
	}
	if err := s.f.CloseAtomicallyReplace(); err != nil {
		s.f.Cleanup()
		return err
	}
	return nil
}

// Abort is a no-op after a successful Commit.
func (s *FileSink) Abort() error {
	return s.f.Cleanup()
}
