package host

import (
	"errors"
	"fmt"
)

// Addr is a byte address in the debuggee.
type Addr uint64

func (a Addr) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindEnum
	KindPointer
	KindStruct
	KindArray
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindInt:
		return "Int"
	case KindEnum:
		return "Enum"
	case KindPointer:
		return "Pointer"
	case KindStruct:
		return "Struct"
	case KindArray:
		return "Array"
	case KindChar:
		return "Char"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

var (
	ErrNoField    = errors.New("no such field")
	ErrNotPointer = errors.New("value is not a pointer")
	ErrBadAddress = errors.New("cannot access memory")
	ErrWrongShape = errors.New("value has the wrong shape")
	ErrNoSymbol   = errors.New("no such symbol")
)

// Memory reads raw bytes out of the debuggee.
type Memory interface {
	ReadMemory(addr Addr, n int) ([]byte, error)
}

// Value is a borrowed handle into debuggee memory. It is only valid for the
// duration of one rendering call and any access may fail.
type Value interface {
	// TypeName is the declared type, qualifiers included.
	TypeName() string
	Kind() Kind
	// Address is the numeric value of a pointer, or the location of any
	// other value.
	Address() Addr
	Deref() (Value, error)
	Field(name string) (Value, error)
	Fields() ([]string, error)
	Index(i int) (Value, error)
	Cast(typeName string) (Value, error)
	Int() (int64, error)
	// CString reads the NUL terminated string a char pointer refers to.
	CString() (string, error)
	// Format is the debugger's own rendering of the value.
	Format() (string, error)
}

// FieldString reads a char pointer field and returns its text.
func FieldString(v Value, name string) (string, error) {
	f, err := v.Field(name)
	if err != nil {
		return "", err
	}
	return f.CString()
}

// FieldPath follows a chain of field names, dereferencing pointers along
// the way.
func FieldPath(v Value, names ...string) (Value, error) {
	cur := v
	for _, n := range names {
		if cur.Kind() == KindPointer {
			d, err := cur.Deref()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n, err)
			}
			cur = d
		}
		next, err := cur.Field(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n, err)
		}
		cur = next
	}
	return cur, nil
}
