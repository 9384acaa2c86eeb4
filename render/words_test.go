package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgdev/bashview/inferior"
)

func TestJoinWords(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		words []string
		want  string
	}{
		{"empty", nil, ""},
		{"single", []string{"ls"}, "ls"},
		{"quoted", []string{"echo", "hello world"}, "echo 'hello world'"},
		{"tab", []string{"printf", "a\tb"}, "printf 'a\tb'"},
		{"many", strings.Fields("a b c d e f g h"), "a b c d e f g h"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, f.table.JoinWords(f.value(f.img.Words(c.words...))))
		})
	}
}

func TestJoinWordsFromNode(t *testing.T) {
	f := newFixture(t)
	head := f.img.Words("git", "status")
	node, err := f.value(head).Deref()
	require.NoError(t, err)
	assert.Equal(t, "git status", f.table.JoinWords(node))
	assert.Equal(t, "git status", f.table.Display(node))
}

func TestJoinWordsCycle(t *testing.T) {
	f := newFixture(t)
	f.flags.WordListCap = 5
	head := f.img.Words("a", "b")
	first, err := f.value(head).Deref()
	require.NoError(t, err)
	second, err := first.Field("next")
	require.NoError(t, err)
	require.NoError(t, f.img.SetField(second.Address(), "next", head))

	assert.Equal(t, "a b a b a <word list truncated after 5 words>", f.table.JoinWords(f.value(head)))
	assert.Contains(t, f.log.String(), "JoinWords: gave up after 5 words")
}

func TestJoinWordsExactlyAtCap(t *testing.T) {
	f := newFixture(t)
	f.flags.WordListCap = 3
	assert.Equal(t, "x y z", f.table.JoinWords(f.value(f.img.Words("x", "y", "z"))))
}

func TestJoinWordsBrokenNode(t *testing.T) {
	f := newFixture(t)
	bad := inferior.Ptr("WORD_LIST *", f.img.Struct("WORD_LIST",
		inferior.F("next", inferior.Null("WORD_LIST *")),
		inferior.F("word", inferior.Ptr("WORD_DESC *", 0xbad)),
	))
	good := inferior.Ptr("WORD_LIST *", f.img.Struct("WORD_LIST",
		inferior.F("next", bad),
		inferior.F("word", f.img.Word("ok")),
	))

	got := f.table.JoinWords(f.value(good))
	assert.True(t, strings.HasPrefix(got, "ok <"), got)
	assert.Contains(t, got, "cannot access memory at address 0xbad")

	got = f.table.JoinWords(f.value(bad))
	assert.True(t, strings.HasPrefix(got, "<word: cannot access memory"), got)
	assert.Contains(t, f.log.String(), "JoinWords: caught error after 0 words")
}

func TestWordDesc(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "hello world", f.table.Display(f.value(f.img.Word("hello world"))))

	broken := f.img.At("WORD_DESC", f.img.Struct("WORD_DESC",
		inferior.F("word", inferior.Ptr("char *", 0xbad)),
	))
	assert.Contains(t, f.table.Display(broken), "cannot access memory")
}
