package shell

import "fmt"

// Parser token values from bash's y.tab.h, plus the single character
// connectors which the grammar passes through as their own code.
var tokens = map[int]string{
	'&': "&",
	';': ";",
	'|': "|",

	258: "IF",
	259: "THEN",
	260: "ELSE",
	261: "ELIF",
	262: "FI",
	263: "CASE",
	264: "ESAC",
	265: "FOR",
	266: "SELECT",
	267: "WHILE",
	268: "UNTIL",
	269: "DO",
	270: "DONE",
	271: "FUNCTION",
	272: "COPROC",
	273: "COND_START",
	274: "COND_END",
	275: "COND_ERROR",
	276: "IN",
	277: "BANG",
	278: "TIME",
	279: "TIMEOPT",
	280: "TIMEIGN",
	281: "WORD",
	282: "ASSIGNMENT_WORD",
	283: "REDIR_WORD",
	284: "NUMBER",
	285: "ARITH_CMD",
	286: "ARITH_FOR_EXPRS",
	287: "COND_CMD",
	288: "AND_AND",
	289: "OR_OR",
	290: "GREATER_GREATER",
	291: "LESS_LESS",
	292: "LESS_AND",
	293: "LESS_LESS_LESS",
	294: "GREATER_AND",
	295: "SEMI_SEMI",
	296: "SEMI_AND",
	297: "SEMI_SEMI_AND",
	298: "LESS_LESS_MINUS",
	299: "AND_GREATER",
	300: "AND_GREATER_GREATER",
	301: "LESS_GREATER",
	302: "GREATER_BAR",
	303: "BAR_AND",
	304: "yacc_EOF",
}

var tokenCodes = func() map[string]int {
	out := make(map[string]int, len(tokens))
	for code, name := range tokens {
		out[name] = code
	}
	return out
}()

// TokenName returns the symbolic name of a token code. Unknown codes come
// back as UNK_BASH_TOKEN(code).
func TokenName(code int) string {
	if name, ok := tokens[code]; ok {
		return name
	}
	return fmt.Sprintf("UNK_BASH_TOKEN(%d)", code)
}

func TokenCode(name string) (int, bool) {
	code, ok := tokenCodes[name]
	return code, ok
}
