package frames

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bgdev/bashview/config"
	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/inferior"
	"github.com/bgdev/bashview/render"
	"github.com/bgdev/bashview/shell"
	"github.com/bgdev/bashview/trace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stack struct {
	img   *inferior.Image
	flags *config.Flags
	log   *bytes.Buffer
	table *render.Table
}

func newStack(t *testing.T) *stack {
	t.Helper()
	img := inferior.NewImage(t.Name())
	img.SignalNames("EXIT", "SIGHUP", "SIGINT", "SIGQUIT")
	img.AddGlobal(inferior.SymbolDef{Name: "PATH", Cell: img.Variable("PATH", "/bin", shell.AttExported)})
	img.AddGlobal(inferior.SymbolDef{Name: "stale", Invalid: true})
	img.AddGlobal(inferior.SymbolDef{Name: "main", Function: true})
	img.AddGlobal(inferior.SymbolDef{Name: "optimized", Cell: inferior.Int("int", 0), Fail: "value has been optimized out"})

	flags := config.NewFlags()
	var log bytes.Buffer
	return &stack{
		img:   img,
		flags: flags,
		log:   &log,
		table: render.NewTable(flags, trace.New(&log, flags), img),
	}
}

// push adds frames oldest first.
func (s *stack) push(defs ...inferior.FrameDef) {
	for _, d := range defs {
		s.img.PushFrame(d)
	}
}

func (s *stack) labels() []string {
	var out []string
	for fr := range NewFilter(s.table).Filter(s.img.Stack()) {
		out = append(out, fr.Function())
	}
	return out
}

func (s *stack) trapFrame(sig int64, cmd string) inferior.FrameDef {
	return inferior.FrameDef{
		Name: "_run_trap_internal",
		Locals: []inferior.SymbolDef{
			{Name: "sig", Cell: inferior.Int("int", sig), Argument: true},
			{Name: "trap_command", Cell: s.img.Str(cmd)},
		},
	}
}

func TestFunctionLabels(t *testing.T) {
	s := newStack(t)
	s.push(
		inferior.FrameDef{Name: "main"},
		inferior.FrameDef{Name: "reader_loop"},
		inferior.FrameDef{Name: "execute_command", Locals: []inferior.SymbolDef{
			{Name: "command", Cell: s.img.For("i", []string{"a", "b"}), Argument: true},
		}},
		inferior.FrameDef{Name: "execute_command", Locals: []inferior.SymbolDef{
			{Name: "command", Cell: s.img.Simple("ls"), Argument: true},
		}},
		inferior.FrameDef{Name: "execute_builtin_or_function", Locals: []inferior.SymbolDef{
			{Name: "words", Cell: s.img.Words("echo", "hello world"), Argument: true},
		}},
	)

	want := []string{
		"execute_builtin_or_function=SH_CMD: echo 'hello world'",
		"execute_command",
		"execute_command=SH_CMD: for i ...",
		"reader_loop",
		"main",
	}
	if diff := cmp.Diff(want, s.labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestFunctionLabelFallbacks(t *testing.T) {
	s := newStack(t)
	s.push(
		inferior.FrameDef{Name: "reader_loop"},
		inferior.FrameDef{Name: "execute_command", Locals: []inferior.SymbolDef{
			{Name: "command", Cell: inferior.Ptr("COMMAND *", 0xbad)},
		}},
		inferior.FrameDef{Name: "execute_builtin_or_function"},
		inferior.FrameDef{Name: "execute_builtin_or_function", NoBlock: true},
		inferior.FrameDef{Name: ""},
	)
	want := []string{
		"??",
		"execute_builtin_or_function",
		"execute_builtin_or_function",
		"execute_command",
		"reader_loop",
	}
	if diff := cmp.Diff(want, s.labels()); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, s.log.String(), "FrmDec: summarizing command failed")
}

func TestTrapLabels(t *testing.T) {
	long := strings.Repeat("x", 60)
	cases := []struct {
		name string
		sig  int64
		cmd  string
		want string
	}{
		{"short", 2, "echo done!", "_run_trap_internal=Trap<SIGINT> 'echo done!'"},
		{"long", 2, long, "_run_trap_internal=Trap<SIGINT> '" + long[:40] + " ...'"},
		{"exactly forty", 1, long[:40], "_run_trap_internal=Trap<SIGHUP> '" + long[:40] + "'"},
		{"multi line", 0, "cleanup\nexit 1", "_run_trap_internal=Trap<EXIT> 'cleanup ...'"},
		{"unknown signal", 99, "true", "_run_trap_internal=Trap<99(UNK name)> 'true'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newStack(t)
			s.push(s.trapFrame(c.sig, c.cmd))
			assert.Equal(t, []string{c.want}, s.labels())
		})
	}
}

func TestTrapLabelUnreadableCommand(t *testing.T) {
	s := newStack(t)
	s.push(inferior.FrameDef{Name: "_run_trap_internal", Locals: []inferior.SymbolDef{
		{Name: "sig", Cell: inferior.Int("int", 3)},
		{Name: "trap_command", Cell: inferior.Ptr("char *", 0xbad)},
	}})
	assert.Equal(t, []string{"_run_trap_internal=Trap<SIGQUIT> '...'"}, s.labels())

	s = newStack(t)
	s.push(inferior.FrameDef{Name: "_run_trap_internal"})
	assert.Equal(t, []string{"_run_trap_internal"}, s.labels())
}

func TestTrapSummary(t *testing.T) {
	assert.Equal(t, "", TrapSummary(""))
	assert.Equal(t, "kill 0", TrapSummary("kill 0"))
	assert.Equal(t, "a ...", TrapSummary("a\nb\nc"))
	assert.Equal(t, strings.Repeat("é", 40)+" ...", TrapSummary(strings.Repeat("é", 41)))
}

func TestLocals(t *testing.T) {
	s := newStack(t)
	s.push(inferior.FrameDef{Name: "execute_builtin_or_function", Locals: []inferior.SymbolDef{
		{Name: "flags", Cell: inferior.Int("int", 0), Argument: true},
		{Name: "words", Cell: s.img.Words("echo", "hi")},
		{Name: "result", Cell: inferior.Int("int", 0), Fail: "register unavailable"},
	}})

	fr := NewDecorator(s.img.Newest(), s.table)
	locals := fr.Locals()
	var names []string
	shown := map[string]string{}
	for _, l := range locals {
		names = append(names, l.Name)
		shown[l.Name] = fr.Display(l)
	}

	want := []string{"words", "result", "foo", "GBL:signal_names", "GBL:PATH", "GBL:optimized", "bar"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("locals mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "echo hi", shown["words"])
	assert.Equal(t, "<error: register unavailable>", shown["result"])
	assert.Equal(t, "99", shown["foo"])
	assert.Equal(t, "PATH", shown["GBL:PATH"])
	assert.Equal(t, "<error: value has been optimized out>", shown["GBL:optimized"])
	assert.Equal(t, "99", shown["bar"])
	assert.Contains(t, s.log.String(), "skipped invalid symbol stale")

	i := slices.IndexFunc(locals, func(l Local) bool { return l.Name == "words" })
	require.GreaterOrEqual(t, i, 0)
	assert.NotNil(t, locals[i].Symbol)
	assert.Nil(t, locals[i].Value)
}

func TestLocalsWithoutBlock(t *testing.T) {
	s := newStack(t)
	s.push(inferior.FrameDef{Name: "mystery", NoBlock: true})
	assert.Nil(t, NewDecorator(s.img.Newest(), s.table).Locals())
}

func TestFilterDisabled(t *testing.T) {
	s := newStack(t)
	s.push(
		inferior.FrameDef{Name: "reader_loop"},
		inferior.FrameDef{Name: "execute_command", Locals: []inferior.SymbolDef{
			{Name: "command", Cell: s.img.Simple("ls")},
		}},
	)
	require.NoError(t, s.flags.Set(config.FrameFilters, false))

	var got []Frame
	for fr := range NewFilter(s.table).Filter(s.img.Stack()) {
		got = append(got, fr)
	}
	require.Len(t, got, 2)
	for _, fr := range got {
		assert.IsType(t, &Plain{}, fr)
		assert.Nil(t, fr.Locals())
	}
	assert.Equal(t, "execute_command", got[0].Function())
	assert.Equal(t, []string{"execute_command", "reader_loop"}, s.labels())
}

func TestFilterStopsEarly(t *testing.T) {
	s := newStack(t)
	s.push(inferior.FrameDef{Name: "a"}, inferior.FrameDef{Name: "b"}, inferior.FrameDef{Name: "c"})
	f := NewFilter(s.table)
	assert.Equal(t, FilterName, f.Name)
	assert.Equal(t, FilterPriority, f.Priority)
	assert.True(t, f.Enabled)

	var seen []host.Frame
	for fr := range f.Filter(s.img.Stack()) {
		seen = append(seen, fr.Inferior())
		if len(seen) == 2 {
			break
		}
	}
	assert.Len(t, seen, 2)
}
