package trace

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/bgdev/bashview/host"
)

// Trace dumps each argument at indent level zero.
func (s *Sink) Trace(args ...any) {
	s.TraceIndent(0, args...)
}

// TraceIndent dumps each argument, choosing a layout from its dynamic type.
func (s *Sink) TraceIndent(indent int, args ...any) {
	if !s.Enabled() {
		return
	}
	for _, msg := range args {
		s.dump(msg, indent)
		s.Write("\n", indent)
	}
}

func (s *Sink) dump(msg any, indent int) {
	switch m := msg.(type) {
	case nil:
		s.Write("<nil>", indent)
	case string:
		s.Write(m, indent)
	case []byte:
		s.Write(string(m), indent)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, complex64, complex128, host.Addr:
		s.Write(fmt.Sprint(m), indent)
	case host.Value:
		s.dumpValue(m, indent)
	case host.Symbol:
		s.dumpSymbol(m, indent)
	case error:
		s.Write(fmt.Sprintf("<error: %v>", m), indent)
	default:
		rv := reflect.ValueOf(msg)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			s.Write(fmt.Sprintf("%T\n", msg), indent)
			for i := 0; i < rv.Len(); i++ {
				s.Write(fmt.Sprintf("   [%d]=", i), indent+1)
				s.dump(rv.Index(i).Interface(), indent+2)
				s.Write("\n", indent+2)
			}
		case reflect.Map:
			s.Write(fmt.Sprintf("%T\n", msg), indent)
			keys := rv.MapKeys()
			sort.Slice(keys, func(i, j int) bool {
				return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
			})
			for _, k := range keys {
				s.Write(fmt.Sprintf("%v: %v\n", k.Interface(), rv.MapIndex(k).Interface()), indent+1)
			}
		default:
			s.Write(fmt.Sprintf("%T <unrecognized by trace>\n", msg), indent)
			s.Write(fmt.Sprintf("value: %+v\n", msg), indent+1)
		}
	}
}

func (s *Sink) dumpValue(v host.Value, indent int) {
	s.Write("<Value>\n", indent)
	s.Write(fmt.Sprintf("   type   = %s\n", v.TypeName()), indent+1)
	s.Write(fmt.Sprintf("   address= 0x%X\n", uint64(v.Address())), indent+1)
	if str, err := v.CString(); err == nil {
		s.Write(fmt.Sprintf("   value  = %s\n", str), indent+1)
		return
	}
	str, err := v.Format()
	if err != nil {
		str = fmt.Sprintf("<error: %v>", err)
	}
	s.Write(fmt.Sprintf("   value  = %s\n", str), indent+1)
}

func (s *Sink) dumpSymbol(sym host.Symbol, indent int) {
	s.Write("<Symbol>\n", indent)
	s.Write(fmt.Sprintf("   name       =%s\n", sym.Name()), indent)
	s.Write(fmt.Sprintf("   type       =%s\n", sym.TypeName()), indent)
	s.Write(fmt.Sprintf("   argument   =%t\n", sym.IsArgument()), indent)
	s.Write("   value=", indent)
	v, err := sym.Value(nil)
	if err != nil {
		s.Write(fmt.Sprintf("<error while accessing value:%v>\n", err), indent+1)
		return
	}
	s.dumpValue(v, indent+1)
}
