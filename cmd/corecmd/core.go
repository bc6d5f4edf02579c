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

package corecmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/bep/logg"
	"github.com/bep/logg/handlers/multi"
	"github.com/gohugoio/selfextract/internal/common/logging"
	"github.com/gohugoio/selfextract/internal/config"
	"github.com/gohugoio/selfextract/internal/packager"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const (
	// CommandName is the main command's binary name.
	CommandName = "selfextract"

	// The prefix used for any flag overrides.
	EnvPrefix = "SELFEXTRACT"
)

const longHelp = `selfextract packs files into a single shell script that, when run,
extracts them to a temporary directory, runs the post-extract script
in that directory and removes it again.

Files can be given with -files or as arguments. With -root, entry names
are relative to root, else the base filename is used.

Flags can also be set with SELFEXTRACT_<FLAG> environment variables
(e.g. SELFEXTRACT_TYPE=zip) or in a TOML file given with -config.`

// New constructs a usable ffcli.Command and an empty Core. The options
// will be set after a successful parse. The caller must call Init before Run.
func New() (*ffcli.Command, *Core) {
	core := &Core{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	fs := flag.NewFlagSet(CommandName, flag.ContinueOnError)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       CommandName,
		ShortUsage: CommandName + " [flags] -post-extract <script> <file>...",
		ShortHelp:  "Create a self-extracting shell script.",
		LongHelp:   longHelp,
		FlagSet:    fs,
		Options: []ff.Option{
			ff.WithEnvVarPrefix(EnvPrefix),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(config.ParseTOML),
		},
		Exec: core.Exec,
	}, core
}

// Core holds the options and common objects.
type Core struct {
	// The raw options.
	Options config.Options

	// The common Info logger.
	InfoLog logg.LevelLogger

	// The common Warn logger.
	WarnLog logg.LevelLogger

	// Only log warnings and errors.
	Quiet bool

	// The TOML config file to use, if any.
	ConfigFile string

	// Absolute path to the working directory.
	ProjectDir string

	// Where to write the script if no output file is set.
	Stdout io.Writer

	// Where to write the log.
	Stderr *os.File

	fs *flag.FlagSet
}

// RegisterFlags registers the flag fields into the provided flag.FlagSet.
// All the options have a one letter alias.
func (c *Core) RegisterFlags(fs *flag.FlagSet) {
	c.fs = fs
	o := &c.Options

	fs.StringVar(&o.Type, "type", "tar", "The archive type, tar or zip.")
	fs.Var(&o.CompressLevel, "compress-level", "The compression level, 0-9. 0 disables compression. Defaults to the archive type's default.")
	fs.StringVar(&o.PreExtract, "pre-extract", "", "Shell commands to run before extraction, in the current directory.")
	fs.StringVar(&o.PostExtract, "post-extract", "", "Shell commands to run after extraction, in the extraction directory.")
	fs.StringVar(&o.PreExtractFile, "pre-extract-file", "", "Read the pre-extract script from this file.")
	fs.StringVar(&o.PostExtractFile, "post-extract-file", "", "Read the post-extract script from this file.")
	fs.BoolVar(&o.OmitHeader, "omit-header", false, "Don't add the \"created with\" comment to the script.")
	fs.StringVar(&o.Root, "root", "", "Make entry names relative to this directory instead of using the base filename.")
	fs.Var((*stringFlags)(&o.Files), "files", "A file to add. Can be repeated, arguments are added as well.")
	fs.Var((*stringFlags)(&o.Exclude), "exclude", "Glob matching entry names to leave out. Can be repeated.")
	fs.StringVar(&o.Output, "output", "", "Write the script to this file instead of stdout.")

	for short, name := range map[string]string{
		"t": "type",
		"c": "compress-level",
		"a": "pre-extract",
		"b": "post-extract",
		"n": "pre-extract-file",
		"m": "post-extract-file",
		"q": "omit-header",
		"r": "root",
		"f": "files",
		"x": "exclude",
		"o": "output",
	} {
		alias(fs, short, name)
	}

	fs.BoolVar(&o.Try, "try", false, "Trial run, validate and build the archive, but write nothing.")
	fs.BoolVar(&c.Quiet, "quiet", false, "Only log warnings and errors.")
	fs.StringVar(&c.ConfigFile, "config", "", "A TOML file with flag values, e.g. type = \"zip\".")
}

// Init completes the command line parsing and configures logging.
// It must be called after the flags are parsed.
func (c *Core) Init() error {
	if err := c.parseArgs(c.fs.Args()); err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error getting working directory: %w", err)
	}
	c.ProjectDir = wd

	// The log goes to stderr, stdout may be the script.
	logHandler := multi.New(
		// Make paths below the working directory relative in the log messages.
		logging.Replacer(strings.NewReplacer(c.ProjectDir+string(filepath.Separator), "")),
		logging.NewHandler(c.Stderr, c.Quiet),
	)

	l := logg.New(
		logg.Options{
			Level:   logg.LevelInfo,
			Handler: logHandler,
		},
	)

	c.InfoLog = l.WithLevel(logg.LevelInfo).WithField(logging.FieldCmd, CommandName)
	c.WarnLog = l.WithLevel(logg.LevelWarn).WithField(logging.FieldCmd, CommandName)

	return nil
}

// Exec function for this command.
// The arguments are already handled in Init.
func (c *Core) Exec(ctx context.Context, _ []string) error {
	req, err := c.Options.Init()
	if err != nil {
		return err
	}

	if req.Try {
		c.WarnLog.Log(logg.String("Trial run, no script will be written"))
	}

	return packager.New(c.InfoLog, Version(), c.Stdout).Build(req)
}

// parseArgs adds the positional arguments to the files.
// Flags may follow the files, so parsing continues at the next flag.
func (c *Core) parseArgs(args []string) error {
	for len(args) > 0 {
		arg := args[0]
		if arg == "--" {
			c.Options.Files = append(c.Options.Files, args[1:]...)
			return nil
		}
		if len(arg) > 1 && arg[0] == '-' {
			if err := c.fs.Parse(args); err != nil {
				return err
			}
			args = c.fs.Args()
			continue
		}
		c.Options.Files = append(c.Options.Files, arg)
		args = args[1:]
	}
	return nil
}

// Version returns the version of the selfextract module.
func Version() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

type stringFlags []string

func (s *stringFlags) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ", ")
}

func (s *stringFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// alias registers short as an alternative name for the flag name.
// Setting the alias sets the aliased flag, so it's
// also considered set when applying env and config values.
func alias(fs *flag.FlagSet, short, name string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flag %q not registered", name))
	}
	usage := fmt.Sprintf("Alias for -%s.", name)
	v := aliasValue{fs: fs, name: name}
	if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
		fs.Var(boolAliasValue{v}, short, usage)
		return
	}
	fs.Var(v, short, usage)
}

type aliasValue struct {
	fs   *flag.FlagSet
	name string
}

func (v aliasValue) String() string {
	if v.fs == nil {
		return ""
	}
	return v.fs.Lookup(v.name).Value.String()
}

func (v aliasValue) Set(s string) error {
	return v.fs.Set(v.name, s)
}

type boolAliasValue struct {
	aliasValue
}

func (boolAliasValue) IsBoolFlag() bool { return true }
