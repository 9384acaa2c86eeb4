package shell

import "strings"

// Attr is the SHELL_VAR attributes bitmask (variables.h).
type Attr int

const (
	AttExported  Attr = 0x0000001
	AttReadonly  Attr = 0x0000002
	AttArray     Attr = 0x0000004
	AttFunction  Attr = 0x0000008
	AttInteger   Attr = 0x0000010
	AttLocal     Attr = 0x0000020
	AttAssoc     Attr = 0x0000040
	AttTrace     Attr = 0x0000080
	AttUppercase Attr = 0x0000100
	AttLowercase Attr = 0x0000200
	AttCapcase   Attr = 0x0000400
	AttNameref   Attr = 0x0000800

	// internal
	AttInvisible  Attr = 0x0001000
	AttNounset    Attr = 0x0002000
	AttNoassign   Attr = 0x0004000
	AttImported   Attr = 0x0008000
	AttSpecial    Attr = 0x0010000
	AttNofree     Attr = 0x0020000
	AttRegenerate Attr = 0x0040000
	AttTempvar    Attr = 0x0100000
	AttPropagate  Attr = 0x0200000
)

var attrNames = []struct {
	bit  Attr
	name string
}{
	{AttExported, "exported"},
	{AttReadonly, "readonly"},
	{AttArray, "array"},
	{AttFunction, "function"},
	{AttInteger, "integer"},
	{AttLocal, "local"},
	{AttAssoc, "assoc"},
	{AttTrace, "trace"},
	{AttUppercase, "uppercase"},
	{AttLowercase, "lowercase"},
	{AttCapcase, "capcase"},
	{AttNameref, "nameref"},
	{AttInvisible, "invisible"},
	{AttNounset, "nounset"},
	{AttNoassign, "noassign"},
	{AttImported, "imported"},
	{AttSpecial, "special"},
	{AttNofree, "nofree"},
	{AttRegenerate, "regenerate"},
	{AttTempvar, "tempvar"},
	{AttPropagate, "propagate"},
}

func (a Attr) Has(bit Attr) bool {
	return a&bit != 0
}

// Names lists the set flags in bit order.
func (a Attr) Names() []string {
	var out []string
	for _, n := range attrNames {
		if a.Has(n.bit) {
			out = append(out, n.name)
		}
	}
	return out
}

func (a Attr) String() string {
	return strings.Join(a.Names(), ",")
}

// ParseAttr maps a flag name back to its bit.
func ParseAttr(name string) (Attr, bool) {
	for _, n := range attrNames {
		if n.name == name {
			return n.bit, true
		}
	}
	return 0, false
}

type VarKind int

const (
	KindSimple VarKind = iota
	KindArray
	KindAssoc
	KindNameref
	KindFunction
)

func (k VarKind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindAssoc:
		return "associative"
	case KindNameref:
		return "nameref"
	case KindFunction:
		return "function"
	default:
		return "simple"
	}
}

// Classify picks the variable kind. When several kind bits are set the first
// match wins: function, array, assoc, nameref.
func (a Attr) Classify() VarKind {
	switch {
	case a.Has(AttFunction):
		return KindFunction
	case a.Has(AttArray):
		return KindArray
	case a.Has(AttAssoc):
		return KindAssoc
	case a.Has(AttNameref):
		return KindNameref
	}
	return KindSimple
}

// HasScalarValue reports whether the value field holds a plain string.
func (k VarKind) HasScalarValue() bool {
	return k == KindSimple || k == KindNameref
}
