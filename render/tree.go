package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bgdev/bashview/host"
)

// Tree writes a value and, for renderers with children, its structured view
// indented underneath. Children are expanded down to maxDepth levels.
func (t *Table) Tree(w io.Writer, name string, v host.Value, maxDepth int) {
	t.tree(w, name, Child{Name: name, Value: v}, 0, maxDepth)
}

func (t *Table) tree(w io.Writer, name string, c Child, level, maxDepth int) {
	indent := strings.Repeat("  ", level)
	if c.Value == nil {
		fmt.Fprintf(w, "%s%s = %s\n", indent, name, c.Text)
		return
	}
	fmt.Fprintf(w, "%s%s = %s\n", indent, name, t.Display(c.Value))
	if level >= maxDepth {
		return
	}
	p, hint := t.parentOf(c.Value)
	if p == nil {
		return
	}
	sep := "."
	if hint == HintMap {
		sep = ":"
	}
	children, err := safely(func() ([]Child, error) { return p.Children(), nil })
	if err != nil {
		fmt.Fprintf(w, "%s  <error: %v>\n", indent, err)
		return
	}
	for _, child := range children {
		t.tree(w, sep+child.Name, child, level+1, maxDepth)
	}
}

// parentOf finds the renderer that supplies children for v, looking through
// one safe pointer dereference.
func (t *Table) parentOf(v host.Value) (p Parent, hint Hint) {
	defer func() {
		if r := recover(); r != nil {
			t.Sink.Trace("Tree: recovered while looking up children", fmt.Sprint(r))
			p, hint = nil, HintNone
		}
	}()
	r, ok := t.Lookup(v)
	if !ok {
		return nil, HintNone
	}
	if ptr, isPtr := r.(*Pointer); isPtr {
		target, ok := ptr.Target()
		if !ok {
			return nil, HintNone
		}
		if r, ok = t.Lookup(target); !ok {
			return nil, HintNone
		}
	}
	p, ok = r.(Parent)
	if !ok {
		return nil, HintNone
	}
	if h, ok := r.(Hinter); ok {
		return p, h.DisplayHint()
	}
	return p, HintNone
}
