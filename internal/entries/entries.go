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

// Package entries maps input files to archive entries.
package entries

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gohugoio/selfextract/internal/common/mapsh"
	"github.com/gohugoio/selfextract/internal/common/matchers"
)

const (
	// ModeExecutable is used for shell scripts.
	ModeExecutable fs.FileMode = 0o755

	// ModeDefault is used for everything else.
	ModeDefault fs.FileMode = 0o644
)

// ScriptSuffix marks a file as a shell script.
const ScriptSuffix = ".sh"

// Entry is a file to add to the archive.
type Entry struct {
	// Name is the slash separated path inside the archive.
	Name string

	// SourcePath is the absolute filename to read from.
	SourcePath string

	Mode fs.FileMode
}

// ModeFor returns the mode to use for the entry name.
// This only looks at the file extension (case sensitive), not the content.
func ModeFor(name string) fs.FileMode {
	if strings.HasSuffix(name, ScriptSuffix) {
		return ModeExecutable
	}
	return ModeDefault
}

// Resolve maps the files to entries.
// If root is set, entry names are relative to root, else the base filename is used.
// Entries whose name matches exclude are dropped; exclude may be nil.
// It's an error if two entries end up with the same name.
func Resolve(files []string, root string, exclude matchers.Matcher) ([]Entry, error) {
	if root != "" {
		var err error
		if root, err = filepath.Abs(root); err != nil {
			return nil, err
		}
	}

	var es []Entry
	for _, file := range files {
		e, err := resolve(file, root)
		if err != nil {
			return nil, err
		}
		if exclude != nil && exclude.Match(e.Name) {
			continue
		}
		es = append(es, e)
	}

	if len(es) == 0 {
		if len(files) > 0 {
			return nil, errors.New("no files left to archive after applying excludes")
		}
		return nil, errors.New("no files to archive")
	}

	if err := checkDuplicates(es); err != nil {
		return nil, err
	}

	return es, nil
}

func resolve(file, root string) (Entry, error) {
	filename, err := filepath.Abs(file)
	if err != nil {
		return Entry{}, err
	}

	var name string
	if root == "" {
		name = filepath.Base(filename)
	} else {
		rel, err := filepath.Rel(root, filename)
		if err != nil {
			return Entry{}, fmt.Errorf("%q is not below root %q: %w", file, root, err)
		}
		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return Entry{}, fmt.Errorf("%q is not below root %q", file, root)
		}
		name = rel
	}

	name = filepath.ToSlash(name)

	return Entry{
		Name:       name,
		SourcePath: filename,
		Mode:       ModeFor(name),
	}, nil
}

func checkDuplicates(es []Entry) error {
	groups := mapsh.GroupBy(es, func(e Entry) string { return e.Name })
	if len(groups) == len(es) {
		return nil
	}
	dups := make(map[string][]string)
	for name, group := range groups {
		if len(group) < 2 {
			continue
		}
		for _, e := range group {
			dups[name] = append(dups[name], e.SourcePath)
		}
	}
	return &DuplicatesError{Duplicates: dups}
}

// DuplicatesError is returned when more than one file maps to the same entry name.
type DuplicatesError struct {
	// Duplicates maps the entry name to the source paths, in input order.
	Duplicates map[string][]string
}

func (e *DuplicatesError) Error() string {
	var sb strings.Builder
	sb.WriteString("duplicate entry names in archive:")
	for _, name := range mapsh.KeysSorted(e.Duplicates) {
		fmt.Fprintf(&sb, "\n  %s: %s", name, strings.Join(e.Duplicates[name], ", "))
	}
	return sb.String()
}
