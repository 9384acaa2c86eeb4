package host

import (
	"strings"
)

var qualifiers = map[string]bool{
	"const":    true,
	"volatile": true,
	"restrict": true,
}

// NormalizeType strips qualifiers from a declared type name and puts the
// pointer markers into the canonical "T *" / "T **" form.
func NormalizeType(name string) string {
	var words []string
	for _, w := range strings.Fields(strings.ReplaceAll(name, "*", " * ")) {
		if qualifiers[w] {
			continue
		}
		words = append(words, w)
	}
	stars := 0
	for len(words) > 0 && words[len(words)-1] == "*" {
		words = words[:len(words)-1]
		stars++
	}
	base := strings.Join(words, " ")
	if stars == 0 || base == "" {
		return base
	}
	return base + " " + strings.Repeat("*", stars)
}

// PointerDepth counts the trailing indirection markers of a type name.
func PointerDepth(name string) int {
	n := NormalizeType(name)
	depth := 0
	for i := len(n) - 1; i >= 0 && n[i] == '*'; i-- {
		depth++
	}
	return depth
}

// Pointee returns the type a pointer type refers to, or "" for non-pointers.
func Pointee(name string) string {
	n := NormalizeType(name)
	if !strings.HasSuffix(n, "*") {
		return ""
	}
	return NormalizeType(n[:len(n)-1])
}

// PointerTo returns the pointer type for name.
func PointerTo(name string) string {
	n := NormalizeType(name)
	if strings.HasSuffix(n, "*") {
		return n + "*"
	}
	return n + " *"
}
