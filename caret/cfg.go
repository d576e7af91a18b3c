package caret

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configure a caret repl
type CaretConfig struct {
	ExitOnFailure       bool
	AfterScriptDontExit bool
	Flags               *flag.FlagSet
	Command             string
	Quiet               bool
	Trace               bool
	DumpAST             bool
	JSON                bool
	MaxDepth            int
	Verbosity           int
	LogFile             string
	SnapshotFormat      string
	ConfigFile          string

	// liner bombs under emacs, avoid it with this flag.
	NoLiner     bool
	Prompt      string // default "caret> "
	HistoryFile string
}

func NewCaretConfig(cmdname string) *CaretConfig {
	return &CaretConfig{
		Flags: flag.NewFlagSet(cmdname, flag.ExitOnError),
	}
}

// call DefineFlags before myflags.Parse()
func (c *CaretConfig) DefineFlags() {
	c.Flags.StringVar(&c.Command, "c", "", "expression to evaluate")
	c.Flags.BoolVar(&c.ExitOnFailure, "exitonfail", false, "exit -1 when the script fails")
	c.Flags.BoolVar(&c.AfterScriptDontExit, "afterscriptrepl", false, "start the repl after running the script")
	c.Flags.BoolVar(&c.Quiet, "quiet", false, "start repl without printing the version banner")
	c.Flags.BoolVar(&c.Trace, "trace", false, "log def! and let* activity at debug level")
	c.Flags.BoolVar(&c.DumpAST, "dump", false, "dump the syntax tree of every line before evaluating it")
	c.Flags.BoolVar(&c.JSON, "json", false, "print results as JSON")
	c.Flags.IntVar(&c.MaxDepth, "maxdepth", DefaultMaxDepth, "maximum nesting depth; negative for unlimited")
	c.Flags.IntVar(&c.Verbosity, "v", 0, "log verbosity (0-4)")
	c.Flags.StringVar(&c.LogFile, "log", "", "log to this file instead of stderr")
	c.Flags.StringVar(&c.SnapshotFormat, "snapshot-format", "msgpack", "format for .save: msgpack or cbor")
	c.Flags.StringVar(&c.ConfigFile, "config", "", "read settings from this .toml or .yaml file")
	c.Flags.BoolVar(&c.NoLiner, "noliner", false, "read plain lines from stdin; no line editing")
	c.Flags.StringVar(&c.Prompt, "prompt", "", "repl prompt")
	c.Flags.StringVar(&c.HistoryFile, "history", "", "repl history file (default ~/.carethist)")
}

// call c.ValidateConfig() after myflags.Parse()
func (c *CaretConfig) ValidateConfig() error {
	if c.ConfigFile != "" {
		fc, err := LoadConfigFile(c.ConfigFile)
		if err != nil {
			return err
		}
		c.applyFileConfig(fc, c.explicitFlags())
	}

	if c.Prompt == "" {
		c.Prompt = "caret> "
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.SnapshotFormat == "" {
		c.SnapshotFormat = "msgpack"
	}
	if _, err := ParseSnapshotFormat(c.SnapshotFormat); err != nil {
		return err
	}
	if c.Verbosity < 0 || c.Verbosity > 4 {
		return fmt.Errorf("verbosity must be between 0 and 4, got %d", c.Verbosity)
	}
	if c.HistoryFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			c.HistoryFile = filepath.Join(home, ".carethist")
		}
	}
	return nil
}

// EvalDepth is the limit handed to the parser and evaluator;
// zero means unlimited.
func (c *CaretConfig) EvalDepth() int {
	if c.MaxDepth < 0 {
		return 0
	}
	return c.MaxDepth
}

func (c *CaretConfig) explicitFlags() map[string]bool {
	set := make(map[string]bool)
	if c.Flags != nil {
		c.Flags.Visit(func(f *flag.Flag) {
			set[f.Name] = true
		})
	}
	return set
}

// FileConfig is the on-disk form of the settings. Pointer
// fields distinguish "absent" from the zero value.
type FileConfig struct {
	Prompt         string `toml:"prompt" yaml:"prompt"`
	HistoryFile    string `toml:"history-file" yaml:"history-file"`
	NoLiner        *bool  `toml:"noliner" yaml:"noliner"`
	Quiet          *bool  `toml:"quiet" yaml:"quiet"`
	Trace          *bool  `toml:"trace" yaml:"trace"`
	JSON           *bool  `toml:"json" yaml:"json"`
	ExitOnFailure  *bool  `toml:"exitonfail" yaml:"exitonfail"`
	AfterScript    *bool  `toml:"afterscriptrepl" yaml:"afterscriptrepl"`
	MaxDepth       *int   `toml:"maxdepth" yaml:"maxdepth"`
	Verbosity      *int   `toml:"verbosity" yaml:"verbosity"`
	LogFile        string `toml:"log" yaml:"log"`
	SnapshotFormat string `toml:"snapshot-format" yaml:"snapshot-format"`
}

var ErrUnknownConfigFormat = fmt.Errorf("config file must end in .toml, .yaml or .yml")

func LoadConfigFile(path string) (*FileConfig, error) {
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownConfigFormat)
	}
	return &fc, nil
}

// applyFileConfig copies settings from the file, except those
// given explicitly on the command line.
func (c *CaretConfig) applyFileConfig(fc *FileConfig, explicit map[string]bool) {
	if fc.Prompt != "" && !explicit["prompt"] {
		c.Prompt = fc.Prompt
	}
	if fc.HistoryFile != "" && !explicit["history"] {
		c.HistoryFile = fc.HistoryFile
	}
	if fc.NoLiner != nil && !explicit["noliner"] {
		c.NoLiner = *fc.NoLiner
	}
	if fc.Quiet != nil && !explicit["quiet"] {
		c.Quiet = *fc.Quiet
	}
	if fc.Trace != nil && !explicit["trace"] {
		c.Trace = *fc.Trace
	}
	if fc.JSON != nil && !explicit["json"] {
		c.JSON = *fc.JSON
	}
	if fc.ExitOnFailure != nil && !explicit["exitonfail"] {
		c.ExitOnFailure = *fc.ExitOnFailure
	}
	if fc.AfterScript != nil && !explicit["afterscriptrepl"] {
		c.AfterScriptDontExit = *fc.AfterScript
	}
	if fc.MaxDepth != nil && !explicit["maxdepth"] {
		c.MaxDepth = *fc.MaxDepth
	}
	if fc.Verbosity != nil && !explicit["v"] {
		c.Verbosity = *fc.Verbosity
	}
	if fc.LogFile != "" && !explicit["log"] {
		c.LogFile = fc.LogFile
	}
	if fc.SnapshotFormat != "" && !explicit["snapshot-format"] {
		c.SnapshotFormat = fc.SnapshotFormat
	}
}
