package inferior

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bgdev/bashview/host"
)

type value struct {
	img  *Image
	typ  string
	kind host.Kind
	// addr is the target of a pointer and the location of everything else.
	addr host.Addr
	num  int64
	name string
}

func fromCell(img *Image, c Cell) *value {
	v := &value{img: img, typ: c.Type, num: c.Int, name: c.Name, addr: c.Addr}
	switch c.Kind {
	case CellInt:
		v.kind = host.KindInt
	case CellEnum:
		v.kind = host.KindEnum
	case CellPtr:
		v.kind = host.KindPointer
	case CellChar:
		v.kind = host.KindChar
	case CellStruct:
		v.kind = host.KindStruct
	case CellArray:
		v.kind = host.KindArray
	default:
		v.kind = host.KindInvalid
	}
	return v
}

func (v *value) TypeName() string { return v.typ }
func (v *value) Kind() host.Kind { return v.kind }
func (v *value) Address() host.Addr { return v.addr }

func (v *value) Deref() (host.Value, error) {
	if v.kind != host.KindPointer {
		return nil, fmt.Errorf("%w: %s", host.ErrNotPointer, v.typ)
	}
	if v.addr == 0 {
		return nil, fmt.Errorf("%w at address 0x0", host.ErrBadAddress)
	}
	obj, base, ok := v.img.find(v.addr)
	if !ok {
		return nil, fmt.Errorf("%w at address %s", host.ErrBadAddress, v.addr)
	}
	pointee := host.Pointee(v.typ)
	off := uint64(v.addr - base)

	if pointee == "char" {
		out := &value{img: v.img, typ: "char", kind: host.KindChar, addr: v.addr}
		if obj.Data != nil {
			out.num = int64(obj.Data[off])
		}
		return out, nil
	}
	if obj.Elems != nil {
		idx := off / wordSize
		if idx >= uint64(len(obj.Elems)) {
			return nil, fmt.Errorf("%w at address %s", host.ErrBadAddress, v.addr)
		}
		out := fromCell(v.img, obj.Elems[idx])
		if pointee != "" {
			out = out.retype(pointee)
		}
		return out, nil
	}
	if host.PointerDepth(pointee) > 0 {
		return nil, fmt.Errorf("%w: %s does not hold a pointer", host.ErrWrongShape, v.addr)
	}
	return &value{img: v.img, typ: pointee, kind: host.KindStruct, addr: v.addr}, nil
}

// retype reinterprets a cell under the declared type of the pointer that
// reached it.
func (v *value) retype(typ string) *value {
	out := *v
	out.typ = typ
	if host.PointerDepth(typ) > 0 && v.kind != host.KindPointer {
		out.kind = host.KindPointer
		out.addr = host.Addr(v.num)
	}
	return &out
}

func (v *value) object() (*Object, error) {
	obj, ok := v.img.Objects[v.addr]
	if !ok {
		return nil, fmt.Errorf("%w at address %s", host.ErrBadAddress, v.addr)
	}
	return obj, nil
}

func (v *value) Field(name string) (host.Value, error) {
	if v.kind != host.KindStruct {
		return nil, fmt.Errorf("%w: %s has no fields", host.ErrWrongShape, v.typ)
	}
	obj, err := v.object()
	if err != nil {
		return nil, err
	}
	for _, f := range obj.Fields {
		if f.Name == name {
			return fromCell(v.img, f.Cell), nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", host.ErrNoField, v.typ, name)
}

func (v *value) Fields() ([]string, error) {
	if v.kind != host.KindStruct {
		return nil, fmt.Errorf("%w: %s has no fields", host.ErrWrongShape, v.typ)
	}
	obj, err := v.object()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		out = append(out, f.Name)
	}
	return out, nil
}

func (v *value) Index(i int) (host.Value, error) {
	if v.kind != host.KindArray && v.kind != host.KindPointer {
		return nil, fmt.Errorf("%w: %s is not indexable", host.ErrWrongShape, v.typ)
	}
	obj, base, ok := v.img.find(v.addr)
	if !ok {
		return nil, fmt.Errorf("%w at address %s", host.ErrBadAddress, v.addr)
	}
	idx := int(uint64(v.addr-base)/wordSize) + i
	if obj.Elems == nil || i < 0 || idx >= len(obj.Elems) {
		return nil, fmt.Errorf("index %d out of range for %s", i, v.typ)
	}
	return fromCell(v.img, obj.Elems[idx]), nil
}

func (v *value) Cast(typ string) (host.Value, error) {
	isPtr := host.PointerDepth(typ) > 0
	switch {
	case isPtr && v.kind == host.KindPointer:
	case !isPtr && v.kind == host.KindStruct:
	case isPtr && (v.kind == host.KindInt || v.kind == host.KindEnum):
		return v.retype(typ), nil
	default:
		return nil, fmt.Errorf("%w: cannot cast %s to %s", host.ErrWrongShape, v.typ, typ)
	}
	out := *v
	out.typ = typ
	return &out, nil
}

func (v *value) Int() (int64, error) {
	switch v.kind {
	case host.KindInt, host.KindEnum, host.KindChar:
		return v.num, nil
	case host.KindPointer:
		return int64(v.addr), nil
	}
	return 0, fmt.Errorf("%w: %s is not a scalar", host.ErrWrongShape, v.typ)
}

func (v *value) CString() (string, error) {
	if v.kind != host.KindPointer || host.Pointee(v.typ) != "char" {
		return "", fmt.Errorf("%w: %s is not a string", host.ErrWrongShape, v.typ)
	}
	if v.addr == 0 {
		return "", fmt.Errorf("%w at address 0x0", host.ErrBadAddress)
	}
	obj, base, ok := v.img.find(v.addr)
	if !ok {
		return "", fmt.Errorf("%w at address %s", host.ErrBadAddress, v.addr)
	}
	if obj.Data == nil {
		return "", fmt.Errorf("%w: %s does not hold characters", host.ErrWrongShape, v.addr)
	}
	data := obj.Data[v.addr-base:]
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}

func (v *value) Format() (string, error) {
	switch v.kind {
	case host.KindInt:
		return fmt.Sprintf("%d", v.num), nil
	case host.KindEnum:
		if v.name != "" {
			return v.name, nil
		}
		return fmt.Sprintf("%d", v.num), nil
	case host.KindChar:
		return fmt.Sprintf("%d '%c'", v.num, rune(v.num)), nil
	case host.KindPointer:
		if s, err := v.CString(); err == nil {
			return fmt.Sprintf("%s %q", v.addr, s), nil
		}
		return fmt.Sprintf("(%s) %s", v.typ, v.addr), nil
	case host.KindStruct:
		return v.formatStruct()
	case host.KindArray:
		return v.formatArray()
	}
	return "", fmt.Errorf("%w: invalid value", host.ErrWrongShape)
}

func (v *value) formatStruct() (string, error) {
	obj, err := v.object()
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		s, err := fromCell(v.img, f.Cell).Format()
		if err != nil {
			s = fmt.Sprintf("<error: %v>", err)
		}
		parts = append(parts, f.Name+" = "+s)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

func (v *value) formatArray() (string, error) {
	obj, err := v.object()
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(obj.Elems))
	for _, c := range obj.Elems {
		s, err := fromCell(v.img, c).Format()
		if err != nil {
			s = fmt.Sprintf("<error: %v>", err)
		}
		parts = append(parts, s)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
