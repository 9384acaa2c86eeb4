// Package fixture builds debuggee images from Starlark scripts, so a bash
// heap and call stack can be described in a few lines instead of Go code.
//
//	words = simple("echo", "hello world")
//	signal_names("EXIT", "SIGHUP", "SIGINT")
//	frame("reader_loop")
//	frame("execute_command", args = {"command": words})
package fixture

import (
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
)

// Script is the result of running a fixture: the image it built and the
// top-level names it bound to values in that image.
type Script struct {
	Image *inferior.Image
	Vars  map[string]inferior.Cell
}

func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Exec(path, f)
}

// Exec runs src, which may be anything starlark accepts as source, under
// the given file name.
func Exec(filename string, src any) (*Script, error) {
	b := &builder{img: inferior.NewImage(filename)}
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.Info().Str("script", filename).Msg(msg)
		},
	}
	opts := syntax.FileOptions{}
	globals, err := starlark.ExecFileOptions(&opts, thread, filename, src, b.predeclared())
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", filename, err)
	}
	s := &Script{Image: b.img, Vars: make(map[string]inferior.Cell)}
	for name, v := range globals {
		if c, ok := v.(cellValue); ok {
			s.Vars[name] = c.c
		}
	}
	log.Debug().
		Str("script", filename).
		Int("objects", len(b.img.Objects)).
		Int("frames", len(b.img.Frames)).
		Msg("fixture loaded")
	return s, nil
}

// Value resolves name first among the script's variables, then among the
// image's globals.
func (s *Script) Value(name string) (host.Value, error) {
	if c, ok := s.Vars[name]; ok {
		return s.Image.Value(c), nil
	}
	if sym, ok := s.Image.GlobalScope().Lookup(name); ok {
		return sym.Value(nil)
	}
	return nil, fmt.Errorf("%w: %s", host.ErrNoSymbol, name)
}

// Names lists the script's variables in order.
func (s *Script) Names() []string {
	out := make([]string, 0, len(s.Vars))
	for name := range s.Vars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// cellValue carries an image cell through starlark.
type cellValue struct {
	c inferior.Cell
}

var _ starlark.Value = cellValue{}

func (v cellValue) String() string {
	if v.c.Kind == inferior.CellPtr {
		return fmt.Sprintf("(%s) %s", v.c.Type, v.c.Addr)
	}
	return fmt.Sprintf("(%s) %d", v.c.Type, v.c.Int)
}

func (v cellValue) Type() string { return "cell" }
func (v cellValue) Freeze() {}
func (v cellValue) Truth() starlark.Bool { return starlark.True }

func (v cellValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: cell")
}
