package inferior

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/bgdev/bashview/host"
	"github.com/shamaton/msgpack/v2"
)

type CellKind int

const (
	CellInt CellKind = iota
	CellEnum
	CellPtr
	CellChar
	// CellStruct and CellArray refer to an object by its base address.
	CellStruct
	CellArray
)

// Cell is one typed slot: a struct field, array element or symbol value.
type Cell struct {
	Kind CellKind
	Type string
	Int  int64
	Addr host.Addr
	Name string
}

func Int(typ string, v int64) Cell {
	return Cell{Kind: CellInt, Type: typ, Int: v}
}

func Enum(typ, name string, v int64) Cell {
	return Cell{Kind: CellEnum, Type: typ, Int: v, Name: name}
}

func Ptr(typ string, addr host.Addr) Cell {
	return Cell{Kind: CellPtr, Type: typ, Addr: addr}
}

func Null(typ string) Cell {
	return Ptr(typ, 0)
}

type Field struct {
	Name string
	Cell Cell
}

func F(name string, c Cell) Field {
	return Field{Name: name, Cell: c}
}

// Object is a block of debuggee memory. Exactly one of Fields, Data or
// Elems describes its contents.
type Object struct {
	Type   string
	Fields []Field
	Data   []byte
	Elems  []Cell
	Size   uint64
}

const (
	wordSize  = 8
	baseAddr  = host.Addr(0x55550000)
	alignment = 16
)

// Image is a simulated debuggee: objects laid out at fixed addresses plus
// the symbols and call stack a debugger would expose.
type Image struct {
	Label   string
	Objects map[host.Addr]*Object
	Next    host.Addr
	Globals []SymbolDef
	// Frames are ordered newest first.
	Frames []FrameDef
}

func NewImage(label string) *Image {
	return &Image{
		Label:   label,
		Objects: make(map[host.Addr]*Object),
		Next:    baseAddr,
	}
}

func (img *Image) Alloc(obj *Object) host.Addr {
	if obj.Size == 0 {
		switch {
		case obj.Data != nil:
			obj.Size = uint64(len(obj.Data))
		case obj.Elems != nil:
			obj.Size = uint64(len(obj.Elems)) * wordSize
		default:
			obj.Size = uint64(len(obj.Fields)) * wordSize
		}
		if obj.Size == 0 {
			obj.Size = wordSize
		}
	}
	addr := img.Next
	img.Objects[addr] = obj
	next := uint64(addr) + obj.Size
	next = (next + alignment - 1) &^ (alignment - 1)
	img.Next = host.Addr(next)
	return addr
}

// Struct allocates a record and returns its address.
func (img *Image) Struct(typ string, fields ...Field) host.Addr {
	return img.Alloc(&Object{Type: typ, Fields: fields})
}

// CString allocates a NUL terminated character buffer.
func (img *Image) CString(s string) host.Addr {
	return img.Alloc(&Object{Type: "char", Data: append([]byte(s), 0)})
}

func (img *Image) Array(elemType string, elems ...Cell) host.Addr {
	return img.Alloc(&Object{Type: elemType, Elems: elems})
}

// Box allocates a single cell, the target of a pointer to a scalar or to
// another pointer.
func (img *Image) Box(c Cell) host.Addr {
	return img.Alloc(&Object{Type: c.Type, Elems: []Cell{c}})
}

func (img *Image) find(addr host.Addr) (*Object, host.Addr, bool) {
	if obj, ok := img.Objects[addr]; ok {
		return obj, addr, true
	}
	for base, obj := range img.Objects {
		if addr > base && uint64(addr) < uint64(base)+obj.Size {
			return obj, base, true
		}
	}
	return nil, 0, false
}

// ReadMemory succeeds only when [addr, addr+n) lies inside one object.
func (img *Image) ReadMemory(addr host.Addr, n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("read of %d bytes", n)
	}
	obj, base, ok := img.find(addr)
	if !ok || uint64(addr)+uint64(n) > uint64(base)+obj.Size {
		return nil, fmt.Errorf("%w at address %s", host.ErrBadAddress, addr)
	}
	out := make([]byte, n)
	if obj.Data != nil {
		copy(out, obj.Data[addr-base:])
	}
	return out, nil
}

// SetField overwrites a field of the record at addr.
func (img *Image) SetField(addr host.Addr, name string, c Cell) error {
	obj, ok := img.Objects[addr]
	if !ok {
		return fmt.Errorf("%w at address %s", host.ErrBadAddress, addr)
	}
	for i := range obj.Fields {
		if obj.Fields[i].Name == name {
			obj.Fields[i].Cell = c
			return nil
		}
	}
	return fmt.Errorf("%w: %s.%s", host.ErrNoField, obj.Type, name)
}

// Value wraps a cell as a debugger value.
func (img *Image) Value(c Cell) host.Value {
	return fromCell(img, c)
}

// At returns the record at addr viewed as typ.
func (img *Image) At(typ string, addr host.Addr) host.Value {
	return &value{img: img, typ: typ, kind: host.KindStruct, addr: addr}
}

// wireImage is the encoded form of an Image. Objects go out in address order
// so equal images encode to equal bytes.
type wireImage struct {
	Label   string
	Objects []placed
	Next    host.Addr
	Globals []SymbolDef
	Frames  []FrameDef
}

type placed struct {
	Addr   host.Addr
	Object *Object
}

func (img *Image) Serialize(w io.Writer) error {
	out := wireImage{
		Label:   img.Label,
		Objects: make([]placed, 0, len(img.Objects)),
		Next:    img.Next,
		Globals: img.Globals,
		Frames:  img.Frames,
	}
	for addr, obj := range img.Objects {
		out.Objects = append(out.Objects, placed{Addr: addr, Object: obj})
	}
	slices.SortFunc(out.Objects, func(a, b placed) int { return cmp.Compare(a.Addr, b.Addr) })
	return msgpack.MarshalWrite(w, &out)
}

func (img *Image) Deserialize(r io.Reader) error {
	var in wireImage
	if err := msgpack.UnmarshalRead(r, &in); err != nil {
		return err
	}
	img.Label = in.Label
	img.Next = in.Next
	img.Globals = in.Globals
	img.Frames = in.Frames
	img.Objects = make(map[host.Addr]*Object, len(in.Objects))
	for _, p := range in.Objects {
		img.Objects[p.Addr] = p.Object
	}
	return nil
}
