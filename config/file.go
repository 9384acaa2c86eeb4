package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of the configuration. Unset fields keep the
// built-in defaults.
type File struct {
	Parameters  map[string]bool `toml:"parameters,omitempty" yaml:"parameters,omitempty"`
	WordListCap int             `toml:"word_list_cap,omitempty" yaml:"word_list_cap,omitempty"`
	MaxDepth    int             `toml:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	TraceFile   string          `toml:"trace_file,omitempty" yaml:"trace_file,omitempty"`
}

func parseTOML(r io.Reader) (*File, error) {
	var out File
	_, err := toml.NewDecoder(r).Decode(&out)
	return &out, err
}

func parseYAML(r io.Reader) (*File, error) {
	var out File
	err := yaml.NewDecoder(r).Decode(&out)
	if err == io.EOF {
		err = nil
	}
	return &out, err
}

// LoadFile reads a .toml, .yaml or .yml configuration file.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return parseTOML(f)
	case ".yaml", ".yml":
		return parseYAML(f)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

// Apply copies the file's settings onto f. Unknown parameter names are an
// error and leave the remaining settings unapplied.
func (c *File) Apply(f *Flags) error {
	for name, v := range c.Parameters {
		if err := f.Set(name, v); err != nil {
			return err
		}
	}
	if c.WordListCap > 0 {
		f.WordListCap = c.WordListCap
	}
	if c.MaxDepth > 0 {
		f.MaxDepth = c.MaxDepth
	}
	if c.TraceFile != "" {
		f.TraceFile = c.TraceFile
	}
	return nil
}

// Load builds Flags from the defaults plus the file at path. An empty path
// yields the defaults.
func Load(path string) (*Flags, error) {
	flags := NewFlags()
	if path == "" {
		return flags, nil
	}
	c, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := c.Apply(flags); err != nil {
		return nil, fmt.Errorf("applying config %s: %w", path, err)
	}
	return flags, nil
}

// FileOf captures the current settings of f in their on-disk form.
func FileOf(f *Flags) *File {
	c := &File{
		Parameters:  make(map[string]bool),
		WordListCap: f.WordListCap,
		MaxDepth:    f.MaxDepth,
		TraceFile:   f.TraceFile,
	}
	for name, t := range f.toggles {
		c.Parameters[name] = t.value
	}
	return c
}

// Save writes c to path in the format its extension names.
func (c *File) Save(path string) error {
	var (
		buf bytes.Buffer
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewEncoder(&buf).Encode(c)
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(c); err == nil {
			err = enc.Close()
		}
	default:
		err = fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
