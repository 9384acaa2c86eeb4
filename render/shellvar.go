package render

import (
	"fmt"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/shell"
)

// ShellVar renders a SHELL_VAR as a map of its name, kind, attributes and,
// for scalar kinds, its value.
type ShellVar struct {
	t *Table
	v host.Value
}

func newShellVar(t *Table, v host.Value) Renderer {
	return &ShellVar{t: t, v: v}
}

func (s *ShellVar) String() string {
	name, err := host.FieldString(s.v, "name")
	if err != nil {
		s.t.Sink.Trace("ShellVar: reading name failed", err)
		return "<error>"
	}
	return name
}

func (s *ShellVar) DisplayHint() Hint {
	return HintMap
}

func errorChild(name string, err error) Child {
	return Child{Name: name, Text: fmt.Sprintf("<error: %v>", err)}
}

// Attributes reads the attribute bits.
func (s *ShellVar) Attributes() (shell.Attr, error) {
	f, err := s.v.Field("attributes")
	if err != nil {
		return 0, err
	}
	n, err := f.Int()
	if err != nil {
		return 0, err
	}
	return shell.Attr(n), nil
}

func (s *ShellVar) field(name string) (string, error) {
	return safely(func() (string, error) { return host.FieldString(s.v, name) })
}

func (s *ShellVar) Children() []Child {
	var out []Child
	if name, err := s.field("name"); err != nil {
		out = append(out, errorChild("name", err))
	} else {
		out = append(out, Child{Name: "name", Text: name})
	}

	attrs, err := safely(s.Attributes)
	if err != nil {
		s.t.Sink.Trace("ShellVar: reading attributes failed", err)
		return append(out, errorChild("type", err), errorChild("attr", err))
	}
	kind := attrs.Classify()
	out = append(out,
		Child{Name: "type", Text: kind.String()},
		Child{Name: "attr", Text: attrs.String()},
	)
	if !kind.HasScalarValue() {
		return out
	}
	if val, err := s.field("value"); err != nil {
		out = append(out, errorChild("value", err))
	} else {
		out = append(out, Child{Name: "value", Text: val})
	}
	return out
}
