package bashview

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/bgdev/bashview/frames"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/render"
)

// Registry is an in-process Host. The CLI drives the extension through it
// the same way a debugger would.
type Registry struct {
	printers []Printer
	filters  map[string]*frames.Filter
	params   map[string]Parameter
}

func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string]*frames.Filter),
		params:  make(map[string]Parameter),
	}
}

func (r *Registry) Printers() []Printer {
	return r.printers
}

func (r *Registry) SetPrinters(p []Printer) {
	r.printers = p
}

func (r *Registry) AddFrameFilter(f *frames.Filter) {
	r.filters[f.Name] = f
}

func (r *Registry) AddParameter(p Parameter) {
	r.params[p.Name] = p
}

// Lookup asks each printer in registration order.
func (r *Registry) Lookup(v host.Value) (render.Renderer, bool) {
	for _, p := range r.printers {
		if rr, ok := p.Lookup(v); ok {
			return rr, true
		}
	}
	return nil, false
}

// Backtrace runs the stack through the highest priority enabled filter.
// Equal priorities go to the filter whose name sorts first.
func (r *Registry) Backtrace(stack iter.Seq[host.Frame]) iter.Seq[frames.Frame] {
	var best *frames.Filter
	for _, f := range r.filters {
		if !f.Enabled {
			continue
		}
		if best == nil || f.Priority > best.Priority ||
			(f.Priority == best.Priority && f.Name < best.Name) {
			best = f
		}
	}
	if best == nil {
		return frames.Undecorated(stack)
	}
	return best.Filter(stack)
}

func (r *Registry) Set(name string, v bool) error {
	p, ok := r.params[name]
	if !ok {
		return fmt.Errorf("no parameter %q", name)
	}
	return p.Set(v)
}

func (r *Registry) Show(name string) (bool, error) {
	p, ok := r.params[name]
	if !ok {
		return false, fmt.Errorf("no parameter %q", name)
	}
	return p.Get(), nil
}

// Parameters returns the registered toggles sorted by name.
func (r *Registry) Parameters() []Parameter {
	out := make([]Parameter, 0, len(r.params))
	for _, p := range r.params {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Parameter) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
