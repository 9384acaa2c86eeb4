package render

import (
	"fmt"
	"strings"

	"github.com/bgdev/bashview/host"
)

// Pointer dereferences one level, and only after the target has been checked as readable.
type Pointer struct {
	t *Table
	v host.Value
}

func newPointer(t *Table, v host.Value) Renderer {
	return &Pointer{t: t, v: v}
}

// opaque pointers are shown as bare addresses: process handles, void
// pointers and anything with more than one level of indirection.
func opaque(typ string) bool {
	typ = host.NormalizeType(typ)
	return typ == "PROCESS *" || strings.Contains(typ, "void") || host.PointerDepth(typ) > 1
}

func (p *Pointer) String() (out string) {
	addr := p.v.Address()
	if addr == 0 {
		return "0x0"
	}
	if opaque(p.v.TypeName()) {
		return addr.String()
	}

	defer func() {
		if r := recover(); r != nil {
			p.t.Sink.Trace("Pointer: dereference panicked", fmt.Sprint(r))
			out = fmt.Sprintf("%s <dereference failed>", addr)
		}
	}()

	if _, err := p.t.Memory.ReadMemory(addr, 1); err != nil {
		p.t.Sink.Trace("Pointer: reading one byte failed", err)
		return fmt.Sprintf("%s <invalid address>", addr)
	}
	target, err := p.v.Deref()
	if err != nil {
		p.t.Sink.Trace("Pointer: dereference failed", err)
		return fmt.Sprintf("%s <dereference failed>", addr)
	}
	if target.Kind() == host.KindPointer {
		return fmt.Sprintf("%s <deref yielded another ptr so stopped>", addr)
	}
	s := p.t.Display(target)
	if p.t.Flags.ShowPtrAddr() {
		return fmt.Sprintf("(%s) %s", addr, s)
	}
	return s
}

// Target is the dereferenced value when String would render it, and false
// whenever String would print a placeholder instead.
func (p *Pointer) Target() (target host.Value, ok bool) {
	addr := p.v.Address()
	if addr == 0 || opaque(p.v.TypeName()) {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			target, ok = nil, false
		}
	}()
	if _, err := p.t.Memory.ReadMemory(addr, 1); err != nil {
		return nil, false
	}
	d, err := p.v.Deref()
	if err != nil || d.Kind() == host.KindPointer {
		return nil, false
	}
	return d, true
}

// CharStar renders a C string as quoted text.
type CharStar struct {
	t *Table
	v host.Value
}

func (c *CharStar) String() string {
	addr := c.v.Address()
	if addr == 0 {
		return "0x0"
	}
	s, err := c.v.CString()
	if err != nil {
		c.t.Sink.Trace("CharStar: reading string failed", err)
		return fmt.Sprintf("%s <invalid mem loc>", addr)
	}
	return "'" + s + "'"
}
