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

package archiveformats

import (
	"fmt"

	"github.com/gohugoio/selfextract/internal/common/mapsh"
)

// The payload formats a script can carry.
// Tar may be gzip compressed, see the compression level.
const (
	InvalidFormat Format = iota
	Tar
	Zip
)

var formatString = map[Format]string{
	// The string values is what users can specify on the command line.
	Tar: "tar",
	Zip: "zip",
}

var stringFormat = map[string]Format{}

func init() {
	for k, v := range formatString {
		stringFormat[v] = k
	}
}

// Parse parses a string into a Format.
// The string must match exactly, "TAR" is not valid.
func Parse(s string) (Format, error) {
	f := stringFormat[s]
	if f == InvalidFormat {
		return f, fmt.Errorf("invalid archive type %q, must be one of %s", s, mapsh.KeysSorted(stringFormat))
	}
	return f, nil
}

// Format represents the type of archive.
type Format int

func (f Format) String() string {
	return formatString[f]
}
