package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgdev/bashview/inferior"
	"github.com/bgdev/bashview/shell"
)

func shellVarChildren(t *testing.T, f *fixture, c inferior.Cell) map[string]string {
	t.Helper()
	target, err := f.value(c).Deref()
	require.NoError(t, err)
	r, ok := f.table.Lookup(target)
	require.True(t, ok)
	sv := r.(*ShellVar)
	assert.Equal(t, HintMap, sv.DisplayHint())

	out := map[string]string{}
	for _, child := range sv.Children() {
		if child.Value != nil {
			out[child.Name] = f.table.Display(child.Value)
		} else {
			out[child.Name] = child.Text
		}
	}
	return out
}

func TestShellVarKinds(t *testing.T) {
	cases := []struct {
		name  string
		attrs shell.Attr
		want  map[string]string
	}{
		{"simple", shell.AttExported, map[string]string{
			"name": "v", "type": "simple", "attr": "exported", "value": "42",
		}},
		{"no attrs", 0, map[string]string{
			"name": "v", "type": "simple", "attr": "", "value": "42",
		}},
		{"nameref", shell.AttNameref, map[string]string{
			"name": "v", "type": "nameref", "attr": "nameref", "value": "42",
		}},
		{"array", shell.AttArray | shell.AttLocal, map[string]string{
			"name": "v", "type": "array", "attr": "array,local",
		}},
		{"assoc", shell.AttAssoc, map[string]string{
			"name": "v", "type": "associative", "attr": "assoc",
		}},
		{"function", shell.AttFunction | shell.AttExported, map[string]string{
			"name": "v", "type": "function", "attr": "exported,function",
		}},
		{"function wins over array", shell.AttFunction | shell.AttArray, map[string]string{
			"name": "v", "type": "function", "attr": "array,function",
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newFixture(t)
			got := shellVarChildren(t, f, f.img.Variable("v", "42", c.attrs))
			assert.Equal(t, c.want, got)
		})
	}
}

func TestShellVarString(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "PATH", f.table.Display(f.value(f.img.Variable("PATH", "/bin", shell.AttExported))))

	nameless := f.img.At("SHELL_VAR", f.img.Struct("SHELL_VAR",
		inferior.F("name", inferior.Ptr("char *", 0xbad)),
		inferior.F("attributes", inferior.Int("int", 0)),
	))
	assert.Equal(t, "<error>", f.table.Display(nameless))
}

func TestShellVarFieldErrors(t *testing.T) {
	f := newFixture(t)
	noValue := inferior.Ptr("SHELL_VAR *", f.img.Struct("SHELL_VAR",
		inferior.F("name", f.img.Str("x")),
		inferior.F("attributes", inferior.Int("int", 0)),
	))
	got := shellVarChildren(t, f, noValue)
	assert.Equal(t, "x", got["name"])
	assert.Equal(t, "simple", got["type"])
	assert.Contains(t, got["value"], "<error: no such field")

	noAttrs := inferior.Ptr("SHELL_VAR *", f.img.Struct("SHELL_VAR",
		inferior.F("name", f.img.Str("y")),
	))
	got = shellVarChildren(t, f, noAttrs)
	assert.Equal(t, "y", got["name"])
	assert.Contains(t, got["type"], "<error: ")
	assert.Contains(t, got["attr"], "<error: ")
	assert.NotContains(t, got, "value")
}

func TestTree(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	f.table.Tree(&buf, "var", f.value(f.img.Variable("PATH", "/bin", shell.AttExported)), 1)
	assert.Equal(t, ""+
		"var = PATH\n"+
		"  :name = PATH\n"+
		"  :type = simple\n"+
		"  :attr = exported\n"+
		"  :value = /bin\n", buf.String())

	buf.Reset()
	cmd := f.img.Simple("ls")
	f.table.Tree(&buf, "cmd", f.value(cmd), 1)
	assert.Equal(t, ""+
		"cmd = 'ls'\n"+
		"  .type = cm_simple\n"+
		"  .flags = 0\n"+
		"  .line = 0\n", buf.String())

	buf.Reset()
	f.table.Tree(&buf, "cmd", f.value(cmd), 0)
	assert.Equal(t, "cmd = 'ls'\n", buf.String())

	buf.Reset()
	bad := inferior.Ptr("COMMAND *", 0xbad)
	f.table.Tree(&buf, "cmd", f.value(bad), 2)
	assert.Equal(t, fmt.Sprintf("cmd = %s <invalid address>\n", bad.Addr), buf.String())
}
