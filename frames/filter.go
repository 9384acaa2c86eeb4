// Package frames decorates the debugger's backtrace with bash-level
// summaries of what each interesting C frame is doing.
package frames

import (
	"iter"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/render"
)

const (
	FilterName     = "BashFrameIterator"
	FilterPriority = 100
)

// Filter wraps a frame walk. With the frame-filters toggle off every frame
// passes through as Plain.
type Filter struct {
	Name     string
	Priority int
	Enabled  bool

	table *render.Table
}

func NewFilter(t *render.Table) *Filter {
	return &Filter{
		Name:     FilterName,
		Priority: FilterPriority,
		Enabled:  true,
		table:    t,
	}
}

func (f *Filter) Filter(frames iter.Seq[host.Frame]) iter.Seq[Frame] {
	if !f.table.Flags.FrameFilters() {
		return Undecorated(frames)
	}
	return func(yield func(Frame) bool) {
		for fr := range frames {
			if !yield(NewDecorator(fr, f.table)) {
				return
			}
		}
	}
}

// Undecorated wraps every frame as Plain.
func Undecorated(frames iter.Seq[host.Frame]) iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for fr := range frames {
			if !yield(&Plain{frame: fr}) {
				return
			}
		}
	}
}
