package render

import (
	"errors"
	"fmt"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/shell"
)

var (
	errTooDeep = errors.New("nesting too deep")
	errCycle   = errors.New("command refers back to itself")
)

// CommandSummary renders a COMMAND node, given as a pointer or as the node
// itself, as a one-line summary. The discriminant is mapped to its variant
// struct before any variant field is read.
func (t *Table) CommandSummary(cmd host.Value) (string, error) {
	leave, ok := t.enter()
	if !ok {
		return "", errTooDeep
	}
	defer leave()

	node := cmd
	if cmd.Kind() == host.KindPointer {
		addr := cmd.Address()
		if addr == 0 {
			return "", fmt.Errorf("%w: null command", host.ErrBadAddress)
		}
		// Only nodes on the current path count, so shared subtrees still
		// render everywhere they appear.
		if t.active[addr] {
			return "", fmt.Errorf("%w at %s", errCycle, addr)
		}
		t.active[addr] = true
		defer delete(t.active, addr)
		d, err := cmd.Deref()
		if err != nil {
			return "", err
		}
		node = d
	}
	ct, err := commandType(node)
	if err != nil {
		return "", err
	}
	structName, ok := ct.StructName()
	if !ok {
		return fmt.Sprintf("<unknown cmd struct type '%s'>", ct), nil
	}
	raw, err := node.Field("value")
	if err != nil {
		return "", err
	}
	typed, err := raw.Cast(host.PointerTo(structName))
	if err != nil {
		return "", err
	}
	variant, err := typed.Deref()
	if err != nil {
		return "", err
	}
	return t.variantSummary(variant, structName)
}

func commandType(node host.Value) (shell.CommandType, error) {
	f, err := node.Field("type")
	if err != nil {
		return 0, err
	}
	n, err := f.Int()
	if err != nil {
		return 0, err
	}
	return shell.CommandType(n), nil
}

func wordField(v host.Value, name string) (string, error) {
	w, err := host.FieldPath(v, name, "word")
	if err != nil {
		return "", err
	}
	return w.CString()
}

func (t *Table) nestedSummary(v host.Value, name string) (string, error) {
	f, err := v.Field(name)
	if err != nil {
		return "", err
	}
	return t.CommandSummary(f)
}

func (t *Table) wordsField(v host.Value, name string) (string, error) {
	f, err := v.Field(name)
	if err != nil {
		return "", err
	}
	return t.JoinWords(f), nil
}

// variantSummary renders an already cast variant struct.
func (t *Table) variantSummary(v host.Value, structName string) (string, error) {
	switch structName {
	case "FOR_COM":
		name, err := wordField(v, "name")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("for %s ...", name), nil
	case "CASE_COM":
		word, err := wordField(v, "word")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("case %s ...", word), nil
	case "WHILE_COM":
		test, err := t.nestedSummary(v, "test")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("while %s; ...", test), nil
	case "IF_COM":
		test, err := t.nestedSummary(v, "test")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("if %s; ...", test), nil
	case "SIMPLE_COM":
		return t.wordsField(v, "words")
	case "SELECT_COM":
		name, err := wordField(v, "name")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("select %s ...", name), nil
	case "CONNECTION":
		s, err := t.connectionSummary(v)
		if err != nil {
			return fmt.Sprintf("<error: %v>", err), nil
		}
		return s, nil
	case "FUNCTION_DEF":
		name, err := wordField(v, "name")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("function %s() {...} ...", name), nil
	case "GROUP_COM":
		return "grouped cmd block {...}", nil
	case "ARITH_COM":
		return t.wordsField(v, "exp")
	case "COND_COM":
		op, err := wordField(v, "op")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("<expr> %s <expr>", op), nil
	case "ARITH_FOR_COM":
		var parts [3]string
		for i, name := range []string{"init", "test", "step"} {
			s, err := t.wordsField(v, name)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("for (( %s; %s; %s ))", parts[0], parts[1], parts[2]), nil
	case "SUBSHELL_COM":
		return "$(...)", nil
	case "COPROC_COM":
		return "<creating coproc>", nil
	}
	return fmt.Sprintf("<unknown cmd struct type '%s'>", structName), nil
}

func (t *Table) connectionSummary(v host.Value) (string, error) {
	first, err := t.nestedSummary(v, "first")
	if err != nil {
		return "", err
	}
	c, err := v.Field("connector")
	if err != nil {
		return "", err
	}
	code, err := c.Int()
	if err != nil {
		return "", err
	}
	second, err := t.nestedSummary(v, "second")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", first, shell.TokenName(int(code)), second), nil
}

// Command renders a COMMAND node.
type Command struct {
	t *Table
	v host.Value
}

func newCommand(t *Table, v host.Value) Renderer {
	return &Command{t: t, v: v}
}

func (c *Command) String() string {
	s, err := c.t.CommandSummary(c.v)
	if err != nil {
		c.t.Sink.Trace("Command: summary failed", err)
		return fmt.Sprintf("<error: %v>", err)
	}
	return "'" + s + "'"
}

func (c *Command) Children() []Child {
	var out []Child
	for _, name := range []string{"type", "flags", "line"} {
		f, err := safely(func() (host.Value, error) { return c.v.Field(name) })
		if err != nil {
			c.t.Sink.Trace("Command: reading "+name+" failed", err)
			out = append(out, Child{Name: name, Text: fmt.Sprintf("<error: %v>", err)})
			continue
		}
		out = append(out, Child{Name: name, Value: f})
	}
	return out
}

// Variant renders one of the structs a COMMAND points to, keyed by the
// struct name that selected it.
type Variant struct {
	t    *Table
	v    host.Value
	name string
}

func variantFactory(name string) Factory {
	return func(t *Table, v host.Value) Renderer {
		return &Variant{t: t, v: v, name: name}
	}
}

func (c *Variant) String() string {
	s, err := c.t.variantSummary(c.v, c.name)
	if err != nil {
		c.t.Sink.Trace("Variant: summary of "+c.name+" failed", err)
		s = "<error: evaluating command summary>"
	}
	return "'" + s + "'"
}

func (c *Variant) Children() []Child {
	names, err := safely(c.v.Fields)
	if err != nil {
		c.t.Sink.Trace("Variant: listing fields of "+c.name+" failed", err)
		return []Child{{Name: "fields", Text: fmt.Sprintf("<error: %v>", err)}}
	}
	out := make([]Child, 0, len(names))
	for _, name := range names {
		f, err := safely(func() (host.Value, error) { return c.v.Field(name) })
		if err != nil {
			out = append(out, Child{Name: name, Text: fmt.Sprintf("<error: %v>", err)})
			continue
		}
		out = append(out, Child{Name: name, Value: f})
	}
	return out
}
