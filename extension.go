// Package bashview renders bash's internal data structures, and decorates
// its stack frames, for a debugger attached to a running shell.
package bashview

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/bgdev/bashview/config"
	"github.com/bgdev/bashview/frames"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/render"
	"github.com/bgdev/bashview/trace"
)

const PrinterName = "bashview"

// Printer is a named value lookup the host consults before its own
// formatting.
type Printer struct {
	Name   string
	Lookup func(v host.Value) (render.Renderer, bool)
}

// Parameter is one operator-settable toggle.
type Parameter struct {
	Name string
	Doc  string
	Get  func() bool
	Set  func(bool) error
}

// Host is the registration surface a debugger offers an extension.
type Host interface {
	Printers() []Printer
	SetPrinters(p []Printer)
	AddFrameFilter(f *frames.Filter)
	AddParameter(p Parameter)
}

type Extension struct {
	Flags  *config.Flags
	Sink   *trace.Sink
	Table  *render.Table
	Filter *frames.Filter
}

func New(flags *config.Flags, sink *trace.Sink, mem host.Memory) *Extension {
	table := render.NewTable(flags, sink, mem)
	return &Extension{
		Flags:  flags,
		Sink:   sink,
		Table:  table,
		Filter: frames.NewFilter(table),
	}
}

// Open loads the configuration at path, which may be empty, and opens the
// trace file it names.
func Open(path string, mem host.Memory) (*Extension, error) {
	flags, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(flags, trace.Open(flags), mem), nil
}

// Install registers the printer, the frame filter and the toggles. A
// printer left behind by an earlier install is replaced, not duplicated.
func (e *Extension) Install(h Host) {
	printers := slices.DeleteFunc(slices.Clone(h.Printers()), func(p Printer) bool {
		return p.Name == PrinterName
	})
	h.SetPrinters(append(printers, Printer{Name: PrinterName, Lookup: e.Table.Lookup}))

	h.AddFrameFilter(e.Filter)
	e.Sink.Trace("#### registered " + e.Filter.Name)

	for _, name := range e.Flags.Names() {
		h.AddParameter(Parameter{
			Name: name,
			Doc:  e.Flags.Doc(name),
			Get: func() bool {
				v, _ := e.Flags.Get(name)
				return v
			},
			Set: func(v bool) error { return e.Flags.Set(name, v) },
		})
	}
	log.Debug().
		Str("printer", PrinterName).
		Str("filter", e.Filter.Name).
		Int("parameters", len(e.Flags.Names())).
		Msg("extension installed")
}

func (e *Extension) Close() error {
	return e.Sink.Close()
}
