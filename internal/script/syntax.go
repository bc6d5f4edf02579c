package script

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CheckSyntax parses src as a POSIX shell script.
// Scripts are inserted verbatim into the preamble, so e.g. an unterminated
// quote or here-document would swallow the rest of the bootstrap.
func CheckSyntax(name, src string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(src), name); err != nil {
		return fmt.Errorf("invalid shell syntax: %w", err)
	}
	return nil
}
