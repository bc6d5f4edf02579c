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

package ioh

import (
	"io/fs"
	"os"
	"path/filepath"
)

// github.com/google/renameio/v2 is not built on Windows.

// NewFileSink returns a Sink that writes to a temporary file next to filename.
// On Commit the temporary file replaces filename.
// On Abort the temporary file is removed, leaving any existing filename untouched.
func NewFileSink(filename string, perm fs.FileMode) (*FileSink, error) {
	f, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &FileSink{f: f, filename: filename}, nil
}

// FileSink is an atomic file Sink.
type FileSink struct {
	f        *os.File
	filename string
	done     bool
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

func (s *FileSink) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	err := s.f.Close()
	if err == nil {
		err = os.Rename(s.f.Name(), s.filename)
	}
	if err != nil {
		os.Remove(s.f.Name())
	}
	return err
}

func (s *FileSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	s.f.Close()
	return os.Remove(s.f.Name())
}
