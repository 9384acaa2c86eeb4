package main

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"

	"github.com/bgdev/bashview"
	"github.com/bgdev/bashview/frames"
	"github.com/bgdev/bashview/host"
)

// session is the extension installed into an in-process registry, the way
// a debugger would load it.
type session struct {
	ext *bashview.Extension
	reg *bashview.Registry
}

func openSession(mem host.Memory) *session {
	ext, err := bashview.Open(configPath, mem)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load configuration")
	}
	reg := bashview.NewRegistry()
	ext.Install(reg)
	for _, kv := range setFlags {
		name, v, err := parseSetting(kv)
		if err == nil {
			err = reg.Set(name, v)
		}
		if err != nil {
			log.Fatal().Err(err).Str("set", kv).Msg("Bad parameter override")
		}
	}
	return &session{ext: ext, reg: reg}
}

func (s *session) Close() {
	if err := s.ext.Close(); err != nil {
		log.Warn().Err(err).Msg("closing trace file")
	}
}

func parseSetting(kv string) (string, bool, error) {
	name, val, ok := strings.Cut(kv, "=")
	if !ok {
		return "", false, fmt.Errorf("expected name=bool, got %q", kv)
	}
	v, err := parseBool(val)
	if err != nil {
		return "", false, err
	}
	return name, v, nil
}

// parseBool accepts the on/off spellings debugger settings use as well as
// strconv's.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("not a boolean: %q", s)
	}
	return v, nil
}

// backtrace prints the stack through the registered frame filter. Frames
// the filter left alone list their own block.
func (s *session) backtrace(w io.Writer, stack iter.Seq[host.Frame], locals bool) {
	i := 0
	for f := range s.reg.Backtrace(stack) {
		fmt.Fprintf(w, "#%-2d %s\n", i, color.Cyan.Sprint(f.Function()))
		i++
		if !locals {
			continue
		}
		if d, ok := f.(*frames.Decorator); ok {
			for _, l := range d.Locals() {
				fmt.Fprintf(w, "      %s = %s\n", color.Yellow.Sprint(l.Name), d.Display(l))
			}
			continue
		}
		s.blockLocals(w, f.Inferior())
	}
	if i == 0 {
		fmt.Fprintln(w, color.Gray.Sprint("No stack."))
	}
}

func (s *session) blockLocals(w io.Writer, f host.Frame) {
	b, err := f.Block()
	if err != nil {
		fmt.Fprintf(w, "      %s\n", color.Gray.Sprint("No symbol table info available."))
		return
	}
	for _, sym := range b.Symbols() {
		if sym.IsArgument() {
			continue
		}
		var text string
		if v, err := sym.Value(f); err != nil {
			text = fmt.Sprintf("<error: %v>", err)
		} else {
			text = s.ext.Table.Display(v)
		}
		fmt.Fprintf(w, "      %s = %s\n", color.Yellow.Sprint(sym.Name()), text)
	}
}
