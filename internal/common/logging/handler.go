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

// Package logging contains the log setup used by the selfextract command.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bep/logg"
	"github.com/fatih/color"
)

// FieldCmd is the field name used to prefix log lines.
const FieldCmd = "cmd"

var bold = color.New(color.Bold)

// Colors mapping.
var Colors = [...]*color.Color{
	logg.LevelDebug: color.New(color.FgWhite),
	logg.LevelInfo:  color.New(color.FgBlue),
	logg.LevelWarn:  color.New(color.FgYellow),
	logg.LevelError: color.New(color.FgRed),
}

// Strings mapping.
var Strings = [...]string{
	logg.LevelDebug: "•",
	logg.LevelInfo:  "•",
	logg.LevelWarn:  "•",
	logg.LevelError: "⨯",
}

// Handler writes log entries as single lines.
// The generated script may be written to stdout, so all
// output goes to the one writer given, usually os.Stderr.
// Based on https://github.com/apex/log/blob/master/handlers/cli/cli.go
type Handler struct {
	mu      sync.Mutex
	w       io.Writer
	colours bool

	Padding int
}

// NewDefaultHandler creates a Handler that colours its output.
func NewDefaultHandler(w io.Writer) *Handler {
	return &Handler{
		w:       w,
		colours: true,
		Padding: 3,
	}
}

// NewNoColoursHandler creates a Handler that writes plain text.
func NewNoColoursHandler(w io.Writer) *Handler {
	return &Handler{
		w: w,
	}
}

// HandleLog implements logg.Handler.
func (h *Handler) HandleLog(e *logg.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var prefix string
	for _, field := range e.Fields {
		if field.Name == FieldCmd {
			prefix = strings.ToUpper(fmt.Sprint(field.Value)) + ":\t"
			break
		}
	}

	if h.colours {
		c := Colors[e.Level]
		c.Fprintf(h.w, "%s %s%s", bold.Sprintf("%*s", h.Padding+1, Strings[e.Level]), c.Sprint(prefix), e.Message)
	} else {
		fmt.Fprintf(h.w, "%s%s", prefix, e.Message)
	}

	for _, field := range e.Fields {
		if field.Name == FieldCmd {
			continue
		}
		name := field.Name
		if h.colours {
			name = Colors[e.Level].Sprint(name)
		}
		fmt.Fprintf(h.w, " %s %v", name, field.Value)
	}

	fmt.Fprintln(h.w)

	return nil
}
