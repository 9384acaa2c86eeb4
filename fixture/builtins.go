package fixture

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
	"github.com/bgdev/bashview/shell"
)

type builtinFunc func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

type builder struct {
	img *inferior.Image
}

func (b *builder) predeclared() starlark.StringDict {
	fns := map[string]builtinFunc{
		"cstring":      b.cstring,
		"word":         b.word,
		"words":        b.words,
		"simple":       b.simple,
		"for_":         b.forLoop(b.img.For),
		"select":       b.forLoop(b.img.Select),
		"case":         b.caseCmd,
		"while_":       b.loop(b.img.While),
		"until":        b.loop(b.img.Until),
		"if_":          b.ifCmd,
		"connection":   b.connection,
		"function":     b.function,
		"group":        b.wrapper(b.img.Group),
		"subshell":     b.wrapper(b.img.Subshell),
		"arith":        b.arith,
		"cond":         b.cond,
		"arith_for":    b.arithFor,
		"coproc":       b.coproc,
		"command":      b.command,
		"variable":     b.variable,
		"cycle":        b.cycle,
		"bad_ptr":      b.badPtr,
		"null":         b.null,
		"global_":      b.global,
		"signal_names": b.signalNames,
		"frame":        b.frame,
	}
	out := make(starlark.StringDict, len(fns))
	for name, fn := range fns {
		out[name] = starlark.NewBuiltin(name, fn)
	}
	return out
}

// cell converts a script value to an image cell: cells pass through, ints
// become C ints and strings become char pointers.
func (b *builder) cell(v starlark.Value) (inferior.Cell, error) {
	switch x := v.(type) {
	case cellValue:
		return x.c, nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return inferior.Cell{}, fmt.Errorf("int %s out of range", x)
		}
		return inferior.Int("int", n), nil
	case starlark.String:
		return b.img.Str(string(x)), nil
	case starlark.Bool:
		if x {
			return inferior.Int("int", 1), nil
		}
		return inferior.Int("int", 0), nil
	}
	return inferior.Cell{}, fmt.Errorf("cannot use %s as a value", v.Type())
}

// body converts an optional command argument. None means no command.
func (b *builder) body(v starlark.Value) ([]inferior.Cell, error) {
	if v == nil || v == starlark.None {
		return nil, nil
	}
	c, err := b.cell(v)
	if err != nil {
		return nil, err
	}
	return []inferior.Cell{c}, nil
}

func stringsOf(v starlark.Value) ([]string, error) {
	it, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("want a list of strings, got %s", v.Type())
	}
	iter := it.Iterate()
	defer iter.Done()
	var out []string
	var x starlark.Value
	for iter.Next(&x) {
		s, ok := starlark.AsString(x)
		if !ok {
			return nil, fmt.Errorf("want a string, got %s", x.Type())
		}
		out = append(out, s)
	}
	return out, nil
}

func variadicStrings(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) ([]string, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
	}
	out, err := stringsOf(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return out, nil
}

func (b *builder) cstring(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return cellValue{b.img.Str(s)}, nil
}

func (b *builder) word(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return cellValue{b.img.Word(s)}, nil
}

func (b *builder) words(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ws, err := variadicStrings(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	return cellValue{b.img.Words(ws...)}, nil
}

func (b *builder) simple(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ws, err := variadicStrings(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	return cellValue{b.img.Simple(ws...)}, nil
}

func (b *builder) forLoop(build func(string, []string, ...inferior.Cell) inferior.Cell) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var list, action starlark.Value = starlark.NewList(nil), starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "list?", &list, "body?", &action); err != nil {
			return nil, err
		}
		items, err := stringsOf(list)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		body, err := b.body(action)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		return cellValue{build(name, items, body...)}, nil
	}
}

func (b *builder) caseCmd(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var word string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &word); err != nil {
		return nil, err
	}
	return cellValue{b.img.Case(word)}, nil
}

func (b *builder) loop(build func(inferior.Cell, ...inferior.Cell) inferior.Cell) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var test starlark.Value
		var action starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "test", &test, "body?", &action); err != nil {
			return nil, err
		}
		t, err := b.cell(test)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		body, err := b.body(action)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		return cellValue{build(t, body...)}, nil
	}
}

func (b *builder) ifCmd(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var test starlark.Value
	var then, otherwise starlark.Value = starlark.None, starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "test", &test, "then?", &then, "else_?", &otherwise); err != nil {
		return nil, err
	}
	t, err := b.cell(test)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	branches := []inferior.Cell{inferior.Null("COMMAND *"), inferior.Null("COMMAND *")}
	for i, v := range []starlark.Value{then, otherwise} {
		body, err := b.body(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		if len(body) > 0 {
			branches[i] = body[0]
		}
	}
	return cellValue{b.img.If(t, branches...)}, nil
}

// connection takes the connector as a token code or a token name such as
// "AND_AND" or "|".
func (b *builder) connection(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var first, connector, second starlark.Value
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "first", &first, "connector", &connector, "second", &second); err != nil {
		return nil, err
	}
	var code int
	switch x := connector.(type) {
	case starlark.Int:
		if err := starlark.AsInt(x, &code); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
	case starlark.String:
		c, ok := shell.TokenCode(string(x))
		if !ok {
			return nil, fmt.Errorf("%s: unknown token %q", fn.Name(), string(x))
		}
		code = c
	default:
		return nil, fmt.Errorf("%s: connector must be int or string, got %s", fn.Name(), connector.Type())
	}
	l, err := b.cell(first)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	r, err := b.cell(second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return cellValue{b.img.Connection(l, code, r)}, nil
}

func (b *builder) function(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var action starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "body?", &action); err != nil {
		return nil, err
	}
	body, err := b.body(action)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return cellValue{b.img.Function(name, body...)}, nil
}

func (b *builder) wrapper(build func(...inferior.Cell) inferior.Cell) builtinFunc {
	return func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var action starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "body?", &action); err != nil {
			return nil, err
		}
		body, err := b.body(action)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		return cellValue{build(body...)}, nil
	}
}

func (b *builder) arith(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	exp, err := variadicStrings(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	return cellValue{b.img.Arith(exp...)}, nil
}

func (b *builder) cond(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var op string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &op); err != nil {
		return nil, err
	}
	return cellValue{b.img.Cond(op)}, nil
}

func (b *builder) arithFor(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var init, test, step starlark.Value
	var action starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "init", &init, "test", &test, "step", &step, "body?", &action); err != nil {
		return nil, err
	}
	var parts [3][]string
	for i, v := range []starlark.Value{init, test, step} {
		ws, err := stringsOf(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		parts[i] = ws
	}
	body, err := b.body(action)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return cellValue{b.img.ArithFor(parts[0], parts[1], parts[2], body...)}, nil
}

func (b *builder) coproc(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var action starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "body?", &action); err != nil {
		return nil, err
	}
	body, err := b.body(action)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return cellValue{b.img.Coproc(name, body...)}, nil
}

// command builds a raw COMMAND node with any discriminant, by number or by
// cm_ name, around an optional variant pointer.
func (b *builder) command(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var typ starlark.Value
	var variant starlark.Value = starlark.None
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "type", &typ, "value?", &variant); err != nil {
		return nil, err
	}
	var ct shell.CommandType
	switch x := typ.(type) {
	case starlark.Int:
		var n int
		if err := starlark.AsInt(x, &n); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		ct = shell.CommandType(n)
	case starlark.String:
		c, ok := shell.ParseCommandType(string(x))
		if !ok {
			return nil, fmt.Errorf("%s: unknown command type %q", fn.Name(), string(x))
		}
		ct = c
	default:
		return nil, fmt.Errorf("%s: type must be int or string, got %s", fn.Name(), typ.Type())
	}
	v := inferior.Null("void *")
	if variant != starlark.None {
		c, err := b.cell(variant)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		v = c
	}
	return cellValue{b.img.Command(ct, v)}, nil
}

// variable builds a SHELL_VAR. attrs is a list of attribute names or the
// raw bitmask.
func (b *builder) variable(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, val string
	var attrs starlark.Value = starlark.NewList(nil)
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name, "value?", &val, "attrs?", &attrs); err != nil {
		return nil, err
	}
	var bits shell.Attr
	if n, ok := attrs.(starlark.Int); ok {
		var raw int
		if err := starlark.AsInt(n, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		bits = shell.Attr(raw)
	} else {
		names, err := stringsOf(attrs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		for _, n := range names {
			bit, ok := shell.ParseAttr(n)
			if !ok {
				return nil, fmt.Errorf("%s: unknown attribute %q", fn.Name(), n)
			}
			bits |= bit
		}
	}
	return cellValue{b.img.Variable(name, val, bits)}, nil
}

// cycle points the last node of a word list back at its head.
func (b *builder) cycle(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var list starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &list); err != nil {
		return nil, err
	}
	head, err := b.cell(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	if head.Kind != inferior.CellPtr || head.Addr == 0 {
		return nil, fmt.Errorf("%s: want a non-empty word list", fn.Name())
	}
	node, err := b.img.Value(head).Deref()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	for {
		next, err := node.Field("next")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		if next.Address() == 0 {
			break
		}
		if node, err = next.Deref(); err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
	}
	if err := b.img.SetField(node.Address(), "next", head); err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return list, nil
}

func (b *builder) badPtr(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var typ string
	addr := 0xbad
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "type", &typ, "addr?", &addr); err != nil {
		return nil, err
	}
	return cellValue{inferior.Ptr(typ, host.Addr(addr))}, nil
}

func (b *builder) null(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var typ string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &typ); err != nil {
		return nil, err
	}
	return cellValue{inferior.Null(typ)}, nil
}

func (b *builder) global(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name, fail string
	var val starlark.Value = starlark.None
	var invalid, function bool
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"name", &name, "value?", &val, "invalid?", &invalid, "function?", &function, "error?", &fail); err != nil {
		return nil, err
	}
	def := inferior.SymbolDef{Name: name, Invalid: invalid, Function: function, Fail: fail}
	if val != starlark.None {
		c, err := b.cell(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name(), err)
		}
		def.Cell = c
	}
	b.img.AddGlobal(def)
	return starlark.None, nil
}

func (b *builder) signalNames(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	names, err := variadicStrings(fn, args, kwargs)
	if err != nil {
		return nil, err
	}
	b.img.SignalNames(names...)
	return starlark.None, nil
}

// frame pushes a stack frame; call it for the outermost frame first. args
// and locals map names to values, errors maps names to a resolution error.
func (b *builder) frame(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var params, locals, errs *starlark.Dict
	var noBlock bool
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"name", &name, "args?", &params, "locals?", &locals, "errors?", &errs, "no_block?", &noBlock); err != nil {
		return nil, err
	}
	def := inferior.FrameDef{Name: name, NoBlock: noBlock}
	for _, group := range []struct {
		dict     *starlark.Dict
		argument bool
		failing  bool
	}{{params, true, false}, {locals, false, false}, {errs, false, true}} {
		if group.dict == nil {
			continue
		}
		for _, kv := range group.dict.Items() {
			sym, ok := starlark.AsString(kv[0])
			if !ok {
				return nil, fmt.Errorf("%s: symbol name must be a string, got %s", fn.Name(), kv[0].Type())
			}
			sd := inferior.SymbolDef{Name: sym, Argument: group.argument}
			if group.failing {
				msg, ok := starlark.AsString(kv[1])
				if !ok {
					return nil, fmt.Errorf("%s: error for %s must be a string", fn.Name(), sym)
				}
				sd.Fail = msg
			} else {
				c, err := b.cell(kv[1])
				if err != nil {
					return nil, fmt.Errorf("%s: %s: %w", fn.Name(), sym, err)
				}
				sd.Cell = c
			}
			def.Locals = append(def.Locals, sd)
		}
	}
	b.img.PushFrame(def)
	return starlark.None, nil
}
