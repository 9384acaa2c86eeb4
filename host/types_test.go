package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	cases := map[string]string{
		"WORD_LIST *":          "WORD_LIST *",
		"const WORD_LIST *":    "WORD_LIST *",
		"WORD_LIST*":           "WORD_LIST *",
		"COMMAND**":            "COMMAND **",
		"volatile  SHELL_VAR":  "SHELL_VAR",
		"char * const":         "char *",
		"const char *const *":  "char **",
		"  enum command_type ": "enum command_type",
		"":                     "",
		"const":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeType(in), "input %q", in)
	}
}

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, 0, PointerDepth("COMMAND"))
	assert.Equal(t, 1, PointerDepth("const COMMAND *"))
	assert.Equal(t, 2, PointerDepth("COMMAND **"))

	assert.Equal(t, "WORD_LIST", Pointee("WORD_LIST *"))
	assert.Equal(t, "WORD_LIST *", Pointee("WORD_LIST **"))
	assert.Equal(t, "", Pointee("WORD_LIST"))

	assert.Equal(t, "FOR_COM *", PointerTo("FOR_COM"))
	assert.Equal(t, "FOR_COM **", PointerTo("FOR_COM *"))
}

func TestAddrString(t *testing.T) {
	assert.Equal(t, "0x0", Addr(0).String())
	assert.Equal(t, "0xdeadbeef", Addr(0xdeadbeef).String())
}
