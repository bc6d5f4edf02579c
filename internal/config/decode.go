package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/gohugoio/selfextract/internal/common/mapsh"
	"github.com/pelletier/go-toml/v2"
)

// ParseTOML is a ff.ConfigFileParser for TOML config files.
// The keys are the long flag names, e.g.
//
//	type = "zip"
//	compress-level = 9
//	post-extract-file = "install.sh"
//	files = ["install.sh", "README.md"]
//
// Arrays set the flag once per element.
func ParseTOML(r io.Reader, set func(name, value string) error) error {
	var m map[string]any

	d := toml.NewDecoder(r)
	if err := d.Decode(&m); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			line, col := derr.Position()
			return fmt.Errorf("error decoding config file:%d:%d: %w:\n%s", line, col, err, derr.String())
		}
		return fmt.Errorf("error decoding config file: %w", err)
	}

	for _, name := range mapsh.KeysSorted(m) {
		if err := setValue(name, m[name], set); err != nil {
			return err
		}
	}

	return nil
}

func setValue(name string, v any, set func(name, value string) error) error {
	switch vv := v.(type) {
	case []any:
		for _, e := range vv {
			if _, ok := e.([]any); ok {
				return fmt.Errorf("config %q: nested arrays are not supported", name)
			}
			if err := setValue(name, e, set); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		return fmt.Errorf("config %q: tables are not supported", name)
	case string:
		return set(name, vv)
	case bool, int64, float64:
		return set(name, fmt.Sprint(vv))
	default:
		return fmt.Errorf("config %q: unsupported value type %T", name, v)
	}
}
