package frames

import (
	"fmt"
	"strings"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/render"
)

const (
	builtinSite = "execute_builtin_or_function"
	commandSite = "execute_command"
	trapSite    = "_run_trap_internal"
	readerLoop  = "reader_loop"

	trapSummaryLen = 40
)

// Frame is what a backtrace prints for one stack entry.
type Frame interface {
	Function() string
	// Locals is nil when the host should list the frame's variables itself.
	Locals() []Local
	Inferior() host.Frame
}

// Local is one entry in a decorated frame's variable list. Block symbols
// carry only Symbol and are resolved when displayed.
type Local struct {
	Name   string
	Symbol host.Symbol
	Value  host.Value
	Text   string
}

// Plain passes a frame through with its own label and locals.
type Plain struct {
	frame host.Frame
}

func (p *Plain) Function() string {
	return frameName(p.frame)
}

// frameName is the frame's own name, or "??" when the host can't give one.
func frameName(f host.Frame) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = "??"
		}
	}()
	name, err := f.Name()
	if err != nil {
		return "??"
	}
	return name
}

// resolve reads a symbol's value, reporting a host panic as an error.
func resolve(sym host.Symbol, f host.Frame) (v host.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return sym.Value(f)
}

func (p *Plain) Locals() []Local { return nil }
func (p *Plain) Inferior() host.Frame { return p.frame }

// Decorator relabels the bash call sites worth summarizing and adds global
// variables to a frame's locals. It holds no state beyond its frame.
type Decorator struct {
	frame host.Frame
	table *render.Table
}

func NewDecorator(f host.Frame, t *render.Table) *Decorator {
	return &Decorator{frame: f, table: t}
}

func (d *Decorator) Inferior() host.Frame {
	return d.frame
}

func (d *Decorator) Locals() (out []Local) {
	defer func() {
		if r := recover(); r != nil {
			d.table.Sink.Trace("FrmDec: recovered while listing locals", fmt.Sprint(r))
			out = append(out, Local{Name: "<error>", Text: fmt.Sprintf("<error: %v>", r)})
		}
	}()
	b, err := d.frame.Block()
	if err != nil {
		d.table.Sink.Trace("FrmDec: frame has no block", err)
		return nil
	}
	for _, sym := range b.Symbols() {
		if l, ok := d.blockLocal(sym); ok {
			out = append(out, l)
		}
	}

	out = append(out, Local{Name: "foo", Text: "99"})

	if global := host.GlobalBlock(b); global != nil {
		for _, sym := range global.Symbols() {
			if l, ok := d.global(sym); ok {
				out = append(out, l)
			}
		}
	}

	out = append(out, Local{Name: "bar", Text: "99"})
	return out
}

// blockLocal keeps a non-argument symbol of the frame's own block, to be
// resolved when displayed.
func (d *Decorator) blockLocal(sym host.Symbol) (l Local, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.table.Sink.Trace("FrmDec: recovered while reading a local", fmt.Sprint(r))
			l, ok = Local{Name: "??", Text: fmt.Sprintf("<error: %v>", r)}, true
		}
	}()
	if sym.IsArgument() {
		return Local{}, false
	}
	return Local{Name: sym.Name(), Symbol: sym}, true
}

// global turns one global symbol into a local, or reports false for symbols
// that are skipped. A symbol the host fails on becomes an error entry.
func (d *Decorator) global(sym host.Symbol) (l Local, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.table.Sink.Trace("FrmDec: recovered while reading a global", fmt.Sprint(r))
			name := l.Name
			if name == "" {
				name = "GBL:??"
			}
			l, ok = Local{Name: name, Text: fmt.Sprintf("<error: %v>", r)}, true
		}
	}()
	if !sym.IsValid() {
		d.table.Sink.Trace("   FrmDec:frame_locals: skipped invalid symbol " + sym.Name())
		return Local{}, false
	}
	if sym.IsFunction() {
		return Local{}, false
	}
	l.Name = "GBL:" + sym.Name()
	v, err := resolve(sym, d.frame)
	if err != nil {
		return Local{Name: l.Name, Text: fmt.Sprintf("<error: %v>", err)}, true
	}
	return Local{Name: l.Name, Value: v}, true
}

// Display renders a local, resolving block symbols on first use.
func (d *Decorator) Display(l Local) string {
	switch {
	case l.Value != nil:
		return d.table.Display(l.Value)
	case l.Symbol != nil:
		v, err := resolve(l.Symbol, d.frame)
		if err != nil {
			return fmt.Sprintf("<error: %v>", err)
		}
		return d.table.Display(v)
	}
	return l.Text
}

// Function labels the frame. Anything that goes wrong while building a
// label, a host panic included, leaves the plain function name.
func (d *Decorator) Function() (label string) {
	defer func() {
		if r := recover(); r != nil {
			d.table.Sink.Trace("FrmDec: recovered while labelling frame", fmt.Sprint(r))
			label = frameName(d.frame)
		}
	}()
	name, err := d.frame.Name()
	if err != nil {
		d.table.Sink.Trace("FrmDec: reading frame name failed", err)
		return "??"
	}
	switch name {
	case builtinSite:
		if s := d.builtinWords(); s != "" {
			return fmt.Sprintf("%s=SH_CMD: %s", name, s)
		}
	case commandSite:
		if s := d.topLevelCommand(); s != "" {
			return fmt.Sprintf("%s=SH_CMD: %s", name, s)
		}
	case trapSite:
		sig, err := d.signal()
		if err != nil {
			d.table.Sink.Trace("FrmDec: reading sig failed", err)
			return name
		}
		return fmt.Sprintf("%s=Trap<%s> '%s'", name, d.signalName(sig), d.trapSummary())
	}
	return name
}

func (d *Decorator) builtinWords() string {
	words, err := host.LookupValue(d.frame, "words")
	if err != nil {
		d.table.Sink.Trace("FrmDec: reading words failed", err)
		return ""
	}
	return d.table.JoinWords(words)
}

// topLevelCommand summarizes the command only when the shell is executing
// it straight from its read loop.
func (d *Decorator) topLevelCommand() string {
	older := d.frame.Older()
	if older == nil {
		return ""
	}
	if caller, err := older.Name(); err != nil || caller != readerLoop {
		return ""
	}
	cmd, err := host.LookupValue(d.frame, "command")
	if err != nil {
		d.table.Sink.Trace("FrmDec: reading command failed", err)
		return ""
	}
	s, err := d.table.CommandSummary(cmd)
	if err != nil {
		d.table.Sink.Trace("FrmDec: summarizing command failed", err)
		return ""
	}
	return s
}

func (d *Decorator) signal() (int, error) {
	v, err := host.LookupValue(d.frame, "sig")
	if err != nil {
		return 0, err
	}
	n, err := v.Int()
	return int(n), err
}

// signalName indexes the shell's signal_names table.
func (d *Decorator) signalName(sig int) string {
	unknown := fmt.Sprintf("%d(UNK name)", sig)
	tbl, err := host.LookupValue(d.frame, "signal_names")
	if err != nil {
		d.table.Sink.Trace("FrmDec: signal_names unavailable", err)
		return unknown
	}
	entry, err := tbl.Index(sig)
	if err != nil {
		return unknown
	}
	name, err := entry.CString()
	if err != nil {
		return unknown
	}
	return name
}

func (d *Decorator) trapSummary() string {
	v, err := host.LookupValue(d.frame, "trap_command")
	if err != nil {
		d.table.Sink.Trace("!!! except while making trapSummary", err)
		return "..."
	}
	cmd, err := v.CString()
	if err != nil {
		d.table.Sink.Trace("!!! except while making trapSummary", err)
		return "..."
	}
	return TrapSummary(cmd)
}

// TrapSummary shortens a trap's command text to its first line, at most
// forty characters, marking any cut with a trailing " ...".
func TrapSummary(cmd string) string {
	s, _, _ := strings.Cut(cmd, "\n")
	if r := []rune(s); len(r) > trapSummaryLen {
		s = string(r[:trapSummaryLen])
	}
	if s != cmd {
		s += " ..."
	}
	return s
}
