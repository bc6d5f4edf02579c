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
	"io"
	"io/fs"
	"os"
)

// File is a named file opened for reading, e.g. an *os.File.
type File interface {
	fs.File
	Name() string
}

// Sink is the destination of a generated script.
// Nothing written to a Sink is considered done before Commit returns nil.
type Sink interface {
	io.Writer

	// Commit makes the written bytes visible at the destination.
	Commit() error

	// Abort throws away what has been written, if possible.
	// It is safe to call Abort after Commit; it's then a no-op.
	Abort() error
}

// NewWriterSink returns a Sink that writes directly to w, e.g. os.Stdout.
// Commit and Abort are no-ops.
func NewWriterSink(w io.Writer) Sink {
	return writerSink{w}
}

type writerSink struct {
	io.Writer
}

func (writerSink) Commit() error { return nil }
func (writerSink) Abort() error  { return nil }

// CreateSpool creates a temporary file used to hold intermediate data.
// The caller must call the returned cleanup func when done.
func CreateSpool(pattern string) (*os.File, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		f.Close()
		os.Remove(f.Name())
	}, nil
}
