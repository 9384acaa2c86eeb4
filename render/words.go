package render

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bgdev/bashview/host"
)

// WordDesc renders a single WORD_DESC as its text.
type WordDesc struct {
	t *Table
	v host.Value
}

func newWordDesc(t *Table, v host.Value) Renderer {
	return &WordDesc{t: t, v: v}
}

func (w *WordDesc) String() string {
	s, err := host.FieldString(w.v, "word")
	if err != nil {
		w.t.Sink.Trace("WordDesc: reading word failed", err)
		return err.Error()
	}
	return s
}

type WordList struct {
	t *Table
	v host.Value
}

func newWordList(t *Table, v host.Value) Renderer {
	return &WordList{t: t, v: v}
}

func (w *WordList) String() string {
	return w.t.JoinWords(w.v)
}

func quoteWord(w string) string {
	if strings.IndexFunc(w, unicode.IsSpace) >= 0 {
		return "'" + w + "'"
	}
	return w
}

func annotate(partial, marker string) string {
	if partial == "" {
		return "<" + marker + ">"
	}
	return partial + " <" + marker + ">"
}

// JoinWords walks a WORD_LIST, given either as a pointer or as the first
// node, and space-joins its words. The walk is iterative and stops after
// Flags.WordListCap nodes so a cyclic list still terminates.
func (t *Table) JoinWords(list host.Value) string {
	var b strings.Builder
	count := 0
	for cur := list; cur != nil; {
		isPtr := cur.Kind() == host.KindPointer
		if isPtr && cur.Address() == 0 {
			break
		}
		if count >= t.Flags.WordListCap {
			t.Sink.Trace(fmt.Sprintf("JoinWords: gave up after %d words. words='%s'", count, b.String()))
			return annotate(b.String(), fmt.Sprintf("word list truncated after %d words", count))
		}
		node := cur
		if isPtr {
			d, err := cur.Deref()
			if err != nil {
				return t.wordsFailed(b.String(), count, err)
			}
			node = d
		}
		text, err := host.FieldPath(node, "word", "word")
		if err != nil {
			return t.wordsFailed(b.String(), count, err)
		}
		word, err := text.CString()
		if err != nil {
			return t.wordsFailed(b.String(), count, err)
		}
		if count > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quoteWord(word))
		count++

		next, err := node.Field("next")
		if err != nil {
			return t.wordsFailed(b.String(), count, err)
		}
		cur = next
	}
	return b.String()
}

func (t *Table) wordsFailed(partial string, count int, err error) string {
	t.Sink.Trace(fmt.Sprintf("JoinWords: caught error after %d words. words='%s'", count, partial), err)
	return annotate(partial, err.Error())
}
