package config

import (
	"fmt"
	"sort"
)

const (
	Trace        = "trace"
	ShowPtrAddr  = "show-ptr-addr"
	FrameFilters = "frame-filters"
)

const (
	DefaultWordListCap = 4096
	DefaultMaxDepth    = 4096
	DefaultTraceFile   = "/tmp/bgtrace.out"
)

type toggle struct {
	value bool
	def   bool
	doc   string
}

// Flags is the process-wide set of operator toggles. It is built once at
// startup and handed by pointer to every component that reads it; the only
// way to change a toggle is Set.
type Flags struct {
	toggles map[string]*toggle

	// WordListCap bounds how many nodes a word list walk visits. MaxDepth
	// bounds nested command summaries and nested dispatch.
	WordListCap int
	MaxDepth    int
	TraceFile   string
}

func NewFlags() *Flags {
	return &Flags{
		toggles: map[string]*toggle{
			Trace: {
				value: true, def: true,
				doc: "Write diagnostic dumps to the trace file",
			},
			ShowPtrAddr: {
				value: false, def: false,
				doc: "Show a pointer's address alongside its dereferenced value",
			},
			FrameFilters: {
				value: true, def: true,
				doc: "Decorate stack frames with shell-level summaries",
			},
		},
		WordListCap: DefaultWordListCap,
		MaxDepth:    DefaultMaxDepth,
		TraceFile:   DefaultTraceFile,
	}
}

func (f *Flags) Set(name string, v bool) error {
	t, ok := f.toggles[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}
	t.value = v
	return nil
}

func (f *Flags) Get(name string) (bool, error) {
	t, ok := f.toggles[name]
	if !ok {
		return false, fmt.Errorf("unknown parameter %q", name)
	}
	return t.value, nil
}

// Default returns the startup value of a toggle.
func (f *Flags) Default(name string) (bool, error) {
	t, ok := f.toggles[name]
	if !ok {
		return false, fmt.Errorf("unknown parameter %q", name)
	}
	return t.def, nil
}

func (f *Flags) Doc(name string) string {
	if t, ok := f.toggles[name]; ok {
		return t.doc
	}
	return ""
}

// Names lists the toggles in sorted order.
func (f *Flags) Names() []string {
	out := make([]string, 0, len(f.toggles))
	for k := range f.toggles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (f *Flags) TraceOn() bool { return f.toggles[Trace].value }
func (f *Flags) ShowPtrAddr() bool { return f.toggles[ShowPtrAddr].value }
func (f *Flags) FrameFilters() bool { return f.toggles[FrameFilters].value }
