package inferior

import (
	"github.com/bgdev/bashview/shell"
)

// Layouts of the bash structs below follow command.h and variables.h, cut
// down to the fields the renderers and the default formatter look at.

func (img *Image) Str(s string) Cell {
	return Ptr("char *", img.CString(s))
}

// Word builds a WORD_DESC and returns a pointer to it.
func (img *Image) Word(s string) Cell {
	return Ptr("WORD_DESC *", img.Struct("WORD_DESC",
		F("word", img.Str(s)),
		F("flags", Int("int", 0)),
	))
}

// Words builds a WORD_LIST in order. No words gives a NULL list.
func (img *Image) Words(words ...string) Cell {
	next := Null("WORD_LIST *")
	for i := len(words) - 1; i >= 0; i-- {
		next = Ptr("WORD_LIST *", img.Struct("WORD_LIST",
			F("next", next),
			F("word", img.Word(words[i])),
		))
	}
	return next
}

// Command wraps a variant struct pointer in a COMMAND node.
func (img *Image) Command(ct shell.CommandType, variant Cell) Cell {
	return Ptr("COMMAND *", img.Struct("COMMAND",
		F("type", Enum("enum command_type", ct.String(), int64(ct))),
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("redirects", Null("REDIRECT *")),
		F("value", Ptr("void *", variant.Addr)),
	))
}

// Variant allocates a command variant struct.
func (img *Image) Variant(structName string, fields ...Field) Cell {
	return Ptr(structName+" *", img.Struct(structName, fields...))
}

func nullCommand() Cell {
	return Null("COMMAND *")
}

func orNull(c []Cell) Cell {
	if len(c) == 0 {
		return nullCommand()
	}
	return c[0]
}

func (img *Image) Simple(words ...string) Cell {
	return img.Command(shell.CmSimple, img.Variant("SIMPLE_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("words", img.Words(words...)),
		F("redirects", Null("REDIRECT *")),
	))
}

func (img *Image) For(name string, list []string, body ...Cell) Cell {
	return img.Command(shell.CmFor, img.Variant("FOR_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("name", img.Word(name)),
		F("map_list", img.Words(list...)),
		F("action", orNull(body)),
	))
}

func (img *Image) Select(name string, list []string, body ...Cell) Cell {
	return img.Command(shell.CmSelect, img.Variant("SELECT_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("name", img.Word(name)),
		F("map_list", img.Words(list...)),
		F("action", orNull(body)),
	))
}

func (img *Image) Case(word string) Cell {
	return img.Command(shell.CmCase, img.Variant("CASE_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("word", img.Word(word)),
		F("clauses", Null("PATTERN_LIST *")),
	))
}

func (img *Image) loop(ct shell.CommandType, test Cell, body []Cell) Cell {
	return img.Command(ct, img.Variant("WHILE_COM",
		F("flags", Int("int", 0)),
		F("test", test),
		F("action", orNull(body)),
	))
}

func (img *Image) While(test Cell, body ...Cell) Cell {
	return img.loop(shell.CmWhile, test, body)
}

func (img *Image) Until(test Cell, body ...Cell) Cell {
	return img.loop(shell.CmUntil, test, body)
}

func (img *Image) If(test Cell, branches ...Cell) Cell {
	trueCase, falseCase := nullCommand(), nullCommand()
	if len(branches) > 0 {
		trueCase = branches[0]
	}
	if len(branches) > 1 {
		falseCase = branches[1]
	}
	return img.Command(shell.CmIf, img.Variant("IF_COM",
		F("flags", Int("int", 0)),
		F("test", test),
		F("true_case", trueCase),
		F("false_case", falseCase),
	))
}

func (img *Image) Connection(first Cell, connector int, second Cell) Cell {
	return img.Command(shell.CmConnection, img.Variant("CONNECTION",
		F("ignore", Int("int", 0)),
		F("first", first),
		F("second", second),
		F("connector", Int("int", int64(connector))),
	))
}

func (img *Image) Function(name string, body ...Cell) Cell {
	return img.Command(shell.CmFunctionDef, img.Variant("FUNCTION_DEF",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("name", img.Word(name)),
		F("command", orNull(body)),
		F("source_file", Null("char *")),
	))
}

func (img *Image) Group(body ...Cell) Cell {
	return img.Command(shell.CmGroup, img.Variant("GROUP_COM",
		F("ignore", Int("int", 0)),
		F("command", orNull(body)),
	))
}

func (img *Image) Arith(exp ...string) Cell {
	return img.Command(shell.CmArith, img.Variant("ARITH_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("exp", img.Words(exp...)),
	))
}

func (img *Image) Cond(op string) Cell {
	return img.Command(shell.CmCond, img.Variant("COND_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("type", Int("int", 0)),
		F("op", img.Word(op)),
		F("left", Null("COND_COM *")),
		F("right", Null("COND_COM *")),
	))
}

func (img *Image) ArithFor(init, test, step []string, body ...Cell) Cell {
	return img.Command(shell.CmArithFor, img.Variant("ARITH_FOR_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("init", img.Words(init...)),
		F("test", img.Words(test...)),
		F("step", img.Words(step...)),
		F("action", orNull(body)),
	))
}

func (img *Image) Subshell(body ...Cell) Cell {
	return img.Command(shell.CmSubshell, img.Variant("SUBSHELL_COM",
		F("flags", Int("int", 0)),
		F("line", Int("int", 0)),
		F("command", orNull(body)),
	))
}

func (img *Image) Coproc(name string, body ...Cell) Cell {
	return img.Command(shell.CmCoproc, img.Variant("COPROC_COM",
		F("flags", Int("int", 0)),
		F("name", img.Str(name)),
		F("command", orNull(body)),
	))
}

// Variable builds a SHELL_VAR. The value is stored as a string whatever the
// attributes say.
func (img *Image) Variable(name, val string, attrs shell.Attr) Cell {
	return Ptr("SHELL_VAR *", img.Struct("SHELL_VAR",
		F("name", img.Str(name)),
		F("value", img.Str(val)),
		F("exportstr", Null("char *")),
		F("dynamic_value", Null("void *")),
		F("assign_func", Null("void *")),
		F("attributes", Int("int", int64(attrs))),
		F("context", Int("int", 0)),
	))
}

// SignalNames installs the signal_names global.
func (img *Image) SignalNames(names ...string) {
	elems := make([]Cell, 0, len(names))
	for _, n := range names {
		elems = append(elems, img.Str(n))
	}
	addr := img.Array("char *", elems...)
	img.AddGlobal(SymbolDef{
		Name: "signal_names",
		Cell: Cell{Kind: CellArray, Type: "char *[]", Addr: addr},
	})
}
