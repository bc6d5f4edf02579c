// Package staticfiles holds files embedded in the binary.
package staticfiles

import (
	_ "embed"
	"text/template"
)

var (
	//go:embed templates/selfextract.sh.gotmpl
	scriptTemplContent []byte

	// ScriptTemplate holds the named templates "header", "locate", "bootstrap" and "trailer"
	// that make up the shell part of a self-extracting script.
	ScriptTemplate *template.Template
)

func init() {
	ScriptTemplate = template.Must(template.New("selfextract").Option("missingkey=error").Parse(string(scriptTemplContent)))
}
