package archives

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bep/logg"
	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/selfextract/internal/archives/archiveformats"
	"github.com/gohugoio/selfextract/internal/entries"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

type archived struct {
	content string
	mode    fs.FileMode
}

func newTestEntries(c *qt.C) []entries.Entry {
	dir := c.TempDir()
	files := map[string]string{
		"install.sh":    "#!/bin/sh\necho install\n",
		"README.txt":    strings.Repeat("Hello self-extracting world!\n", 200),
		"data/conf.ini": "[main]\nkey = value\n",
	}
	var es []entries.Entry
	for _, name := range []string{"install.sh", "README.txt", "data/conf.ini"} {
		filename := filepath.Join(dir, filepath.FromSlash(name))
		c.Assert(os.MkdirAll(filepath.Dir(filename), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(filename, []byte(files[name]), 0o600), qt.IsNil)
		es = append(es, entries.Entry{Name: name, SourcePath: filename, Mode: entries.ModeFor(name)})
	}
	return es
}

func readTar(c *qt.C, r io.Reader) (map[string]archived, []string) {
	m := make(map[string]archived)
	var order []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		c.Assert(err, qt.IsNil)
		b, err := io.ReadAll(tr)
		c.Assert(err, qt.IsNil)
		m[hdr.Name] = archived{content: string(b), mode: fs.FileMode(hdr.Mode).Perm()}
		order = append(order, hdr.Name)
	}
	return m, order
}

func readZip(c *qt.C, b []byte) (map[string]archived, []string) {
	m := make(map[string]archived)
	var order []string
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	c.Assert(err, qt.IsNil)
	for _, f := range zr.File {
		r, err := f.Open()
		c.Assert(err, qt.IsNil)
		content, err := io.ReadAll(r)
		c.Assert(err, qt.IsNil)
		r.Close()
		m[f.Name] = archived{content: string(content), mode: f.Mode().Perm()}
		order = append(order, f.Name)
	}
	return m, order
}

func newInfoLogger() logg.LevelLogger {
	return logg.New(logg.Options{
		Level:   logg.LevelInfo,
		Handler: logg.HandlerFunc(func(e *logg.Entry) error { return nil }),
	}).WithLevel(logg.LevelInfo)
}

func build(c *qt.C, settings Settings, es []entries.Entry) []byte {
	var buf bytes.Buffer
	c.Assert(Build(newInfoLogger(), settings, es, &buf), qt.IsNil)
	return buf.Bytes()
}

func TestBuild(t *testing.T) {
	c := qt.New(t)

	es := newTestEntries(c)
	modTime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	want := func(c *qt.C, got map[string]archived, order []string) {
		c.Helper()
		c.Assert(order, qt.DeepEquals, []string{"install.sh", "README.txt", "data/conf.ini"})
		for _, e := range es {
			b, err := os.ReadFile(e.SourcePath)
			c.Assert(err, qt.IsNil)
			c.Assert(got[e.Name], qt.Equals, archived{content: string(b), mode: e.Mode})
		}
		c.Assert(got["install.sh"].mode, qt.Equals, fs.FileMode(0o755))
		c.Assert(got["README.txt"].mode, qt.Equals, fs.FileMode(0o644))
	}

	for _, level := range []int{DefaultLevel, 0, 1, 9} {
		level := level

		c.Run(fmt.Sprintf("tar level %d", level), func(c *qt.C) {
			settings := Settings{Format: archiveformats.Tar, Level: level, ModTime: modTime}
			b := build(c, settings, es)
			c.Assert(HasMagic(settings, b), qt.IsTrue)
			var r io.Reader = bytes.NewReader(b)
			if level != 0 {
				gr, err := gzip.NewReader(r)
				c.Assert(err, qt.IsNil)
				r = gr
			}
			got, order := readTar(c, r)
			want(c, got, order)
		})

		c.Run(fmt.Sprintf("zip level %d", level), func(c *qt.C) {
			settings := Settings{Format: archiveformats.Zip, Level: level, ModTime: modTime}
			b := build(c, settings, es)
			c.Assert(HasMagic(settings, b), qt.IsTrue)
			got, order := readZip(c, b)
			want(c, got, order)
		})
	}
}

func TestBuildCompressionLevel(t *testing.T) {
	c := qt.New(t)

	es := newTestEntries(c)

	for _, format := range []archiveformats.Format{archiveformats.Tar, archiveformats.Zip} {
		stored := build(c, Settings{Format: format, Level: 0}, es)
		compressed := build(c, Settings{Format: format, Level: 9}, es)
		c.Assert(len(stored), qt.Not(qt.Equals), len(compressed), qt.Commentf("format %s", format))
		c.Assert(len(compressed) < len(stored), qt.IsTrue, qt.Commentf("format %s", format))
	}
}

func TestBuildErrors(t *testing.T) {
	c := qt.New(t)

	es := newTestEntries(c)
	es = append(es[:1], append([]entries.Entry{{Name: "missing.txt", SourcePath: filepath.Join(c.TempDir(), "missing.txt"), Mode: 0o644}}, es[1:]...)...)

	var buf bytes.Buffer
	err := Build(newInfoLogger(), Settings{Format: archiveformats.Tar, Level: DefaultLevel}, es, &buf)
	c.Assert(err, qt.ErrorMatches, `error archiving "missing.txt": .*`)

	dirEntry := []entries.Entry{{Name: "dir", SourcePath: c.TempDir(), Mode: 0o644}}
	err = Build(newInfoLogger(), Settings{Format: archiveformats.Zip, Level: DefaultLevel}, dirEntry, &buf)
	c.Assert(err, qt.ErrorMatches, `.*not a regular file`)

	_, err = New(Settings{Format: archiveformats.InvalidFormat}, &buf)
	c.Assert(err, qt.ErrorMatches, `unsupported archive format.*`)
	_, err = New(Settings{Format: archiveformats.Tar, Level: 10}, &buf)
	c.Assert(err, qt.ErrorMatches, `compression level 10 out of range 0-9`)
}

func TestSettings(t *testing.T) {
	c := qt.New(t)

	c.Assert(Settings{Format: archiveformats.Tar, Level: DefaultLevel}.Extension(), qt.Equals, ".tar.gz")
	c.Assert(Settings{Format: archiveformats.Tar, Level: 0}.Extension(), qt.Equals, ".tar")
	c.Assert(Settings{Format: archiveformats.Zip, Level: 0}.Extension(), qt.Equals, ".zip")
	c.Assert(Settings{Format: archiveformats.Zip, Level: 5}.Compressed(), qt.IsTrue)
	c.Assert(HasMagic(Settings{Format: archiveformats.Zip}, []byte("PK")), qt.IsFalse)
}
