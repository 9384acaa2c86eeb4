package inferior

import (
	"errors"
	"iter"

	"github.com/bgdev/bashview/host"
)

// SymbolDef describes a symbol and the cell its value lives in. A non-empty
// Fail makes resolution return that error.
type SymbolDef struct {
	Name     string
	Cell     Cell
	Argument bool
	Function bool
	Invalid  bool
	Fail     string
}

type FrameDef struct {
	Name    string
	Locals  []SymbolDef
	NoBlock bool
}

func (img *Image) AddGlobal(def SymbolDef) {
	img.Globals = append(img.Globals, def)
}

// PushFrame adds a frame that becomes the newest one on the stack.
func (img *Image) PushFrame(def FrameDef) {
	img.Frames = append([]FrameDef{def}, img.Frames...)
}

// Newest returns the innermost frame, or nil for an empty stack.
func (img *Image) Newest() host.Frame {
	if len(img.Frames) == 0 {
		return nil
	}
	return &frame{img: img, idx: 0}
}

// Stack iterates the frames newest first, the way a backtrace walks them.
func (img *Image) Stack() iter.Seq[host.Frame] {
	return func(yield func(host.Frame) bool) {
		for f := img.Newest(); f != nil; f = f.Older() {
			if !yield(f) {
				return
			}
		}
	}
}

// GlobalScope is the image's global block.
func (img *Image) GlobalScope() host.Block {
	return &block{img: img, defs: img.Globals, global: true}
}

type frame struct {
	img *Image
	idx int
}

func (f *frame) def() FrameDef {
	return f.img.Frames[f.idx]
}

func (f *frame) Name() (string, error) {
	name := f.def().Name
	if name == "" {
		return "", errors.New("frame has no function")
	}
	return name, nil
}

func (f *frame) Older() host.Frame {
	if f.idx+1 >= len(f.img.Frames) {
		return nil
	}
	return &frame{img: f.img, idx: f.idx + 1}
}

func (f *frame) Block() (host.Block, error) {
	d := f.def()
	if d.NoBlock {
		return nil, errors.New("no block for frame")
	}
	return &block{img: f.img, defs: d.Locals, super: f.img.GlobalScope()}, nil
}

type block struct {
	img    *Image
	defs   []SymbolDef
	super  host.Block
	global bool
}

func (b *block) Symbols() []host.Symbol {
	out := make([]host.Symbol, 0, len(b.defs))
	for _, d := range b.defs {
		out = append(out, &symbol{img: b.img, def: d})
	}
	return out
}

func (b *block) Superblock() host.Block {
	return b.super
}

func (b *block) IsGlobal() bool { return b.global }

func (b *block) Lookup(name string) (host.Symbol, bool) {
	for _, d := range b.defs {
		if d.Name == name {
			return &symbol{img: b.img, def: d}, true
		}
	}
	return nil, false
}

type symbol struct {
	img *Image
	def SymbolDef
}

func (s *symbol) Name() string { return s.def.Name }
func (s *symbol) TypeName() string { return s.def.Cell.Type }
func (s *symbol) IsArgument() bool { return s.def.Argument }
func (s *symbol) IsFunction() bool { return s.def.Function }
func (s *symbol) IsValid() bool { return !s.def.Invalid }

func (s *symbol) Value(host.Frame) (host.Value, error) {
	if s.def.Fail != "" {
		return nil, errors.New(s.def.Fail)
	}
	if s.def.Invalid {
		return nil, errors.New("symbol is no longer valid")
	}
	return fromCell(s.img, s.def.Cell), nil
}
