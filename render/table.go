package render

import (
	"fmt"

	"github.com/bgdev/bashview/config"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/shell"
	"github.com/bgdev/bashview/trace"
)

// Renderer produces the display text for one value.
type Renderer interface {
	String() string
}

// Child is one entry of a renderer's structured view. Exactly one of Value
// and Text is set.
type Child struct {
	Name  string
	Value host.Value
	Text  string
}

type Parent interface {
	Renderer
	Children() []Child
}

type Hint int

const (
	HintNone Hint = iota
	HintMap
)

type Hinter interface {
	DisplayHint() Hint
}

// Factory builds the renderer for a value whose type has already matched.
type Factory func(t *Table, v host.Value) Renderer

// Table selects renderers by normalized type name. It is the single entry
// point a debugger calls for every value it is about to display.
type Table struct {
	Flags  *config.Flags
	Sink   *trace.Sink
	Memory host.Memory

	charPtr  string
	pointers map[string]Factory
	values   map[string]Factory
	depth    int

	// active holds the COMMAND nodes being summarized on the current path.
	active map[host.Addr]bool
}

func NewTable(flags *config.Flags, sink *trace.Sink, mem host.Memory) *Table {
	t := &Table{
		Flags:    flags,
		Sink:     sink,
		Memory:   mem,
		charPtr:  "char *",
		pointers: make(map[string]Factory),
		values:   make(map[string]Factory),
		active:   make(map[host.Addr]bool),
	}
	for _, name := range []string{"WORD_DESC *", "WORD_LIST *", "SHELL_VAR *", "COMMAND *", "arrayind_t *"} {
		t.pointers[name] = newPointer
	}
	t.values["WORD_DESC"] = newWordDesc
	t.values["WORD_LIST"] = newWordList
	t.values["SHELL_VAR"] = newShellVar
	t.values["COMMAND"] = newCommand
	for _, name := range shell.VariantStructs {
		t.pointers[name+" *"] = newPointer
		t.values[name] = variantFactory(name)
	}
	return t
}

// Lookup returns the renderer for v, or false when the debugger should fall
// back to its own formatting.
func (t *Table) Lookup(v host.Value) (Renderer, bool) {
	if v == nil {
		return nil, false
	}
	typ := host.NormalizeType(v.TypeName())
	if typ == "" || host.PointerDepth(typ) > 1 {
		return nil, false
	}
	if typ == t.charPtr {
		return &CharStar{t: t, v: v}, true
	}
	if f, ok := t.pointers[typ]; ok {
		return f(t, v), true
	}
	if f, ok := t.values[typ]; ok {
		return f(t, v), true
	}
	return nil, false
}

// Display renders v through the table, falling back to the host's own
// formatting when no renderer matches.
func (t *Table) Display(v host.Value) (out string) {
	if v == nil {
		return "<no value>"
	}
	leave, ok := t.enter()
	if !ok {
		return "<nesting too deep>"
	}
	defer leave()
	defer func() {
		if r := recover(); r != nil {
			t.Sink.Trace("Display: recovered while rendering "+v.TypeName(), fmt.Sprint(r))
			out = fmt.Sprintf("<error: %v>", r)
		}
	}()
	if r, ok := t.Lookup(v); ok {
		return r.String()
	}
	s, err := v.Format()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}
	return s
}

// enter bounds nested rendering: pointer targets, nested commands and
// children all go through it.
func (t *Table) enter() (func(), bool) {
	if t.depth >= t.Flags.MaxDepth {
		return nil, false
	}
	t.depth++
	return func() { t.depth-- }, true
}

// safely runs one host read, reporting a panic as an error so the caller can
// show a placeholder for that entry and carry on.
func safely[T any](read func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return read()
}
