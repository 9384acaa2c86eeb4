package inferior

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMemory(t *testing.T) {
	img := NewImage("mem")
	addr := img.CString("abc")

	b, err := img.ReadMemory(addr, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), b)

	b, err = img.ReadMemory(addr+1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte("bc"), b)

	_, err = img.ReadMemory(addr, 64)
	assert.True(t, errors.Is(err, host.ErrBadAddress))

	_, err = img.ReadMemory(0xdeadbeef, 1)
	assert.True(t, errors.Is(err, host.ErrBadAddress))

	_, err = img.ReadMemory(addr, 0)
	assert.Error(t, err)
}

func TestWordListWalk(t *testing.T) {
	img := NewImage("words")
	list := img.Value(img.Words("echo", "hi"))
	require.Equal(t, host.KindPointer, list.Kind())
	assert.Equal(t, "WORD_LIST *", list.TypeName())

	node, err := list.Deref()
	require.NoError(t, err)
	assert.Equal(t, host.KindStruct, node.Kind())

	word, err := host.FieldPath(node, "word", "word")
	require.NoError(t, err)
	s, err := word.CString()
	require.NoError(t, err)
	assert.Equal(t, "echo", s)

	next, err := node.Field("next")
	require.NoError(t, err)
	second, err := host.FieldPath(next, "word", "word")
	require.NoError(t, err)
	s, err = second.CString()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)

	_, err = node.Field("missing")
	assert.True(t, errors.Is(err, host.ErrNoField))

	names, err := node.Fields()
	require.NoError(t, err)
	assert.Equal(t, []string{"next", "word"}, names)
}

func TestDerefShapes(t *testing.T) {
	img := NewImage("shapes")

	null := img.Value(Null("WORD_LIST *"))
	_, err := null.Deref()
	assert.True(t, errors.Is(err, host.ErrBadAddress))

	scalar := img.Value(Int("int", 3))
	_, err = scalar.Deref()
	assert.True(t, errors.Is(err, host.ErrNotPointer))

	inner := img.Words("x")
	pp := img.Value(Ptr("WORD_LIST **", img.Box(inner)))
	d, err := pp.Deref()
	require.NoError(t, err)
	assert.Equal(t, host.KindPointer, d.Kind())
	assert.Equal(t, "WORD_LIST *", d.TypeName())
	assert.Equal(t, inner.Addr, d.Address())

	idx := img.Value(Ptr("arrayind_t *", img.Box(Int("arrayind_t", 7))))
	d, err = idx.Deref()
	require.NoError(t, err)
	n, err := d.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	str := img.Value(img.Str("hey"))
	d, err = str.Deref()
	require.NoError(t, err)
	assert.Equal(t, host.KindChar, d.Kind())
	n, err = d.Int()
	require.NoError(t, err)
	assert.Equal(t, int64('h'), n)
}

func TestCastCommandValue(t *testing.T) {
	img := NewImage("cast")
	cmd := img.Value(img.For("i", []string{"a", "b"}))
	node, err := cmd.Deref()
	require.NoError(t, err)

	typ, err := node.Field("type")
	require.NoError(t, err)
	n, err := typ.Int()
	require.NoError(t, err)
	assert.Equal(t, int64(shell.CmFor), n)
	s, err := typ.Format()
	require.NoError(t, err)
	assert.Equal(t, "cm_for", s)

	raw, err := node.Field("value")
	require.NoError(t, err)
	typed, err := raw.Cast("FOR_COM *")
	require.NoError(t, err)
	forCom, err := typed.Deref()
	require.NoError(t, err)
	assert.Equal(t, "FOR_COM", forCom.TypeName())
	name, err := host.FieldPath(forCom, "name", "word")
	require.NoError(t, err)
	s, err = name.CString()
	require.NoError(t, err)
	assert.Equal(t, "i", s)

	wrong, err := raw.Cast("IF_COM *")
	require.NoError(t, err)
	ifCom, err := wrong.Deref()
	require.NoError(t, err)
	_, err = ifCom.Field("test")
	assert.True(t, errors.Is(err, host.ErrNoField))

	_, err = typ.Cast("COMMAND")
	assert.True(t, errors.Is(err, host.ErrWrongShape))
}

func TestFormat(t *testing.T) {
	img := NewImage("fmt")
	word := img.Value(img.Word("hi"))
	node, err := word.Deref()
	require.NoError(t, err)
	s, err := node.Format()
	require.NoError(t, err)
	assert.Contains(t, s, `"hi"`)
	assert.Contains(t, s, "flags = 0")

	p := img.Value(Ptr("PROCESS *", 0x1234))
	s, err = p.Format()
	require.NoError(t, err)
	assert.Equal(t, "(PROCESS *) 0x1234", s)
}

func TestFramesAndSymbols(t *testing.T) {
	img := NewImage("frames")
	img.SignalNames("EXIT", "SIGHUP", "SIGINT")
	img.AddGlobal(SymbolDef{Name: "broken", Cell: Int("int", 0), Fail: "optimized out"})
	img.PushFrame(FrameDef{Name: "main"})
	img.PushFrame(FrameDef{Name: "reader_loop"})
	img.PushFrame(FrameDef{Name: "execute_command", Locals: []SymbolDef{
		{Name: "command", Cell: img.Simple("ls")},
	}})

	var names []string
	for f := range img.Stack() {
		n, err := f.Name()
		require.NoError(t, err)
		names = append(names, n)
	}
	assert.Equal(t, []string{"execute_command", "reader_loop", "main"}, names)

	f := img.Newest()
	b, err := f.Block()
	require.NoError(t, err)
	require.Len(t, b.Symbols(), 1)
	assert.False(t, b.IsGlobal())
	g := host.GlobalBlock(b)
	require.NotNil(t, g)
	assert.True(t, g.IsGlobal())

	v, err := host.LookupValue(f, "signal_names")
	require.NoError(t, err)
	sig, err := v.Index(2)
	require.NoError(t, err)
	s, err := sig.CString()
	require.NoError(t, err)
	assert.Equal(t, "SIGINT", s)
	_, err = v.Index(10)
	assert.Error(t, err)

	_, err = host.LookupValue(f, "broken")
	assert.EqualError(t, err, "optimized out")
	_, err = host.LookupValue(f, "nothing")
	assert.True(t, errors.Is(err, host.ErrNoSymbol))
}

func TestSerializeRoundTrip(t *testing.T) {
	img := NewImage("round")
	img.PushFrame(FrameDef{Name: "execute_command", Locals: []SymbolDef{
		{Name: "command", Cell: img.Connection(img.Simple("true"), 288, img.Simple("echo", "ok"))},
	}})

	var buf bytes.Buffer
	require.NoError(t, img.Serialize(&buf))

	out := &Image{}
	require.NoError(t, out.Deserialize(&buf))
	assert.Equal(t, img.Label, out.Label)
	assert.Equal(t, img.Next, out.Next)
	assert.Equal(t, len(img.Objects), len(out.Objects))
	require.Len(t, out.Frames, 1)
	assert.Equal(t, img.Frames[0].Locals[0].Cell, out.Frames[0].Locals[0].Cell)
}

func TestSerializeIsDeterministic(t *testing.T) {
	img := NewImage("stable")
	img.SignalNames("EXIT", "SIGHUP")
	img.Simple("a", "b", "c", "d")

	var first, second bytes.Buffer
	require.NoError(t, img.Serialize(&first))
	require.NoError(t, img.Serialize(&second))
	assert.Equal(t, first.Bytes(), second.Bytes())
}
