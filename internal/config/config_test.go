package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/selfextract/internal/archives"
	"github.com/gohugoio/selfextract/internal/archives/archiveformats"
)

func TestInit(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	postFile := filepath.Join(dir, "post.sh")
	c.Assert(os.WriteFile(postFile, []byte("echo from file\n"), 0o644), qt.IsNil)
	preFile := filepath.Join(dir, "pre.sh")
	c.Assert(os.WriteFile(preFile, []byte("echo pre from file\n"), 0o644), qt.IsNil)

	valid := func() Options {
		return Options{
			Type:        "tar",
			PostExtract: "echo done",
			Files:       []string{"a.sh", "b.txt"},
		}
	}

	c.Run("Defaults", func(c *qt.C) {
		r, err := valid().Init()
		c.Assert(err, qt.IsNil)
		c.Assert(r.Format, qt.Equals, archiveformats.Tar)
		c.Assert(r.Level, qt.Equals, archives.DefaultLevel)
		c.Assert(r.PostExtract, qt.Equals, "echo done")
		c.Assert(r.PreExtract, qt.Equals, "")
		c.Assert(r.Root, qt.Equals, "")
		c.Assert(r.Exclude, qt.IsNil)
		c.Assert(r.ToStdout(), qt.IsTrue)
		c.Assert(r.ArchiveSettings().Compressed(), qt.IsTrue)
	})

	c.Run("Zip level 0", func(c *qt.C) {
		o := valid()
		o.Type = "zip"
		c.Assert(o.CompressLevel.Set("0"), qt.IsNil)
		o.Output = "out.sh"
		r, err := o.Init()
		c.Assert(err, qt.IsNil)
		c.Assert(r.Format, qt.Equals, archiveformats.Zip)
		c.Assert(r.Level, qt.Equals, 0)
		c.Assert(r.ToStdout(), qt.IsFalse)
		c.Assert(r.ArchiveSettings().Compressed(), qt.IsFalse)
	})

	c.Run("Invalid type", func(c *qt.C) {
		o := valid()
		o.Type = "rar"
		_, err := o.Init()
		c.Assert(err, qt.ErrorMatches, `invalid archive type "rar", must be one of \[tar zip\]`)
	})

	c.Run("Level out of range", func(c *qt.C) {
		o := valid()
		o.CompressLevel = OptionalInt{Value: 10, IsSet: true}
		_, err := o.Init()
		c.Assert(err, qt.ErrorMatches, `compress-level must be between 0 and 9, got 10`)
	})

	c.Run("No files", func(c *qt.C) {
		o := valid()
		o.Files = nil
		_, err := o.Init()
		c.Assert(err, qt.ErrorMatches, `no files specified`)
	})

	c.Run("No post-extract", func(c *qt.C) {
		o := valid()
		o.PostExtract = ""
		_, err := o.Init()
		c.Assert(err, qt.ErrorMatches, `a post-extract script is required.*`)

		o.PostExtract = "  \n"
		_, err = o.Init()
		c.Assert(err, qt.ErrorMatches, `a post-extract script is required.*`)
	})

	c.Run("Post-extract file only", func(c *qt.C) {
		o := valid()
		o.PostExtract = ""
		o.PostExtractFile = postFile
		r, err := o.Init()
		c.Assert(err, qt.IsNil)
		c.Assert(r.PostExtract, qt.Equals, "echo from file\n")
	})

	c.Run("Files win over inline", func(c *qt.C) {
		o := valid()
		o.PostExtractFile = postFile
		o.PreExtract = "echo pre"
		o.PreExtractFile = preFile
		r, err := o.Init()
		c.Assert(err, qt.IsNil)
		c.Assert(r.PostExtract, qt.Equals, "echo from file\n")
		c.Assert(r.PreExtract, qt.Equals, "echo pre from file\n")
	})

	c.Run("Unreadable files", func(c *qt.C) {
		o := valid()
		o.PostExtractFile = filepath.Join(dir, "missing-post.sh")
		o.PreExtractFile = filepath.Join(dir, "missing-pre.sh")
		_, err := o.Init()
		c.Assert(err, qt.Not(qt.IsNil))
		c.Assert(err.Error(), qt.Contains, "error reading post-extract file")
		c.Assert(err.Error(), qt.Contains, "missing-post.sh")
		c.Assert(err.Error(), qt.Contains, "error reading pre-extract file")
		c.Assert(err.Error(), qt.Contains, "missing-pre.sh")
	})

	c.Run("Syntax error", func(c *qt.C) {
		o := valid()
		o.PostExtract = "echo 'unterminated"
		_, err := o.Init()
		c.Assert(err, qt.ErrorMatches, `post-extract: invalid shell syntax: .*`)
	})

	c.Run("Root and exclude", func(c *qt.C) {
		o := valid()
		o.Root = "."
		o.Exclude = []string{"*.md"}
		r, err := o.Init()
		c.Assert(err, qt.IsNil)
		wd, _ := os.Getwd()
		c.Assert(r.Root, qt.Equals, wd)
		c.Assert(r.Exclude.Match("README.md"), qt.IsTrue)

		o.Exclude = []string{"["}
		_, err = o.Init()
		c.Assert(err, qt.ErrorMatches, `exclude: invalid glob.*`)
	})

	c.Run("All errors", func(c *qt.C) {
		_, err := Options{Type: "foo"}.Init()
		c.Assert(err, qt.Not(qt.IsNil))
		lines := strings.Split(err.Error(), "\n")
		c.Assert(lines, qt.HasLen, 3)
	})
}

func TestOptionalInt(t *testing.T) {
	c := qt.New(t)

	var i OptionalInt
	c.Assert(i.String(), qt.Equals, "")
	c.Assert(i.Set("x"), qt.ErrorMatches, `"x" is not an integer`)
	c.Assert(i.IsSet, qt.IsFalse)
	c.Assert(i.Set("7"), qt.IsNil)
	c.Assert(i, qt.Equals, OptionalInt{Value: 7, IsSet: true})
	c.Assert(i.String(), qt.Equals, "7")
}

func TestParseTOML(t *testing.T) {
	c := qt.New(t)

	var got []string
	set := func(name, value string) error {
		got = append(got, name+"="+value)
		return nil
	}

	err := ParseTOML(strings.NewReader(`
type = "zip"
compress-level = 9
omit-header = true
files = ["a.sh", "b.txt"]
`), set)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{
		"compress-level=9",
		"files=a.sh",
		"files=b.txt",
		"omit-header=true",
		"type=zip",
	})

	c.Assert(ParseTOML(strings.NewReader("[table]\na = 1\n"), set), qt.ErrorMatches, `config "table": tables are not supported`)
	c.Assert(ParseTOML(strings.NewReader("files = [[\"a\"]]\n"), set), qt.ErrorMatches, `config "files": nested arrays are not supported`)
	c.Assert(ParseTOML(strings.NewReader("type = \n"), set), qt.ErrorMatches, `(?s)error decoding config file:1:.*`)
}
