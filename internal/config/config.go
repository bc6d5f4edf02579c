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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gohugoio/selfextract/internal/archives"
	"github.com/gohugoio/selfextract/internal/archives/archiveformats"
	"github.com/gohugoio/selfextract/internal/common/matchers"
	"github.com/gohugoio/selfextract/internal/script"
)

// Options holds the raw option values, as set from flags, environment or config file.
type Options struct {
	Type            string
	CompressLevel   OptionalInt
	PreExtract      string
	PostExtract     string
	PreExtractFile  string
	PostExtractFile string
	OmitHeader      bool
	Root            string
	Files           []string
	Exclude         []string
	Output          string

	// Trial run, nothing is written.
	Try bool
}

// Request is a validated packaging request.
type Request struct {
	Format archiveformats.Format

	// Level is 0-9 or archives.DefaultLevel.
	Level int

	PreExtract  string
	PostExtract string
	OmitHeader  bool

	// Root is an absolute path, or empty to flatten entry names.
	Root string

	Files []string

	// Exclude matches entry names to leave out. May be nil.
	Exclude matchers.Matcher

	// Output is the filename to write the script to; empty or "-" means stdout.
	Output string

	Try bool
}

// ToStdout reports whether the script should be written to stdout.
func (r Request) ToStdout() bool {
	return r.Output == "" || r.Output == "-"
}

// ArchiveSettings returns the archive settings for r.
func (r Request) ArchiveSettings() archives.Settings {
	return archives.Settings{
		Format: r.Format,
		Level:  r.Level,
	}
}

// Init validates o and creates a Request.
// All problems found are reported in the returned error.
func (o Options) Init() (Request, error) {
	var (
		r    Request
		errs []error
		err  error
	)

	if r.Format, err = archiveformats.Parse(o.Type); err != nil {
		errs = append(errs, err)
	}

	r.Level = archives.DefaultLevel
	if o.CompressLevel.IsSet {
		if o.CompressLevel.Value < 0 || o.CompressLevel.Value > 9 {
			errs = append(errs, fmt.Errorf("compress-level must be between 0 and 9, got %d", o.CompressLevel.Value))
		} else {
			r.Level = o.CompressLevel.Value
		}
	}

	if len(o.Files) == 0 {
		errs = append(errs, errors.New("no files specified"))
	}
	r.Files = o.Files

	r.PostExtract, err = readScript("post-extract", o.PostExtract, o.PostExtractFile)
	if err != nil {
		errs = append(errs, err)
	} else if strings.TrimSpace(r.PostExtract) == "" {
		errs = append(errs, errors.New("a post-extract script is required, use -post-extract or -post-extract-file"))
	}

	r.PreExtract, err = readScript("pre-extract", o.PreExtract, o.PreExtractFile)
	if err != nil {
		errs = append(errs, err)
	}

	if o.Root != "" {
		if r.Root, err = filepath.Abs(o.Root); err != nil {
			errs = append(errs, fmt.Errorf("root: %w", err))
		}
	}

	if len(o.Exclude) > 0 {
		if r.Exclude, err = matchers.GlobAny(o.Exclude...); err != nil {
			errs = append(errs, fmt.Errorf("exclude: %w", err))
		}
	}

	r.OmitHeader = o.OmitHeader
	r.Output = o.Output
	r.Try = o.Try

	if err := errors.Join(errs...); err != nil {
		return Request{}, err
	}

	return r, nil
}

// readScript returns the script from filename if set, else inline.
func readScript(what, inline, filename string) (string, error) {
	s := inline
	if filename != "" {
		b, err := os.ReadFile(filename)
		if err != nil {
			return "", fmt.Errorf("error reading %s file: %w", what, err)
		}
		s = string(b)
	}
	if s == "" {
		return "", nil
	}
	if err := script.CheckSyntax(what, s); err != nil {
		return "", fmt.Errorf("%s: %w", what, err)
	}
	return s, nil
}

// OptionalInt is an int flag value that records whether it was set.
type OptionalInt struct {
	Value int
	IsSet bool
}

func (i *OptionalInt) String() string {
	if i == nil || !i.IsSet {
		return ""
	}
	return strconv.Itoa(i.Value)
}

func (i *OptionalInt) Set(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	i.Value = v
	i.IsSet = true
	return nil
}
