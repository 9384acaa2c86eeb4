// Package shell holds the bash data-structure vocabulary the renderers are
// keyed on: command discriminants, parser tokens and variable attributes.
package shell

import (
	"fmt"
	"strings"
)

// CommandType is the discriminant of bash's COMMAND union
// (enum command_type in command.h).
type CommandType int

const (
	CmFor CommandType = iota
	CmCase
	CmWhile
	CmIf
	CmSimple
	CmSelect
	CmConnection
	CmFunctionDef
	CmUntil
	CmGroup
	CmArith
	CmCond
	CmArithFor
	CmSubshell
	CmCoproc
)

var commandTypeNames = [...]string{
	CmFor:         "cm_for",
	CmCase:        "cm_case",
	CmWhile:       "cm_while",
	CmIf:          "cm_if",
	CmSimple:      "cm_simple",
	CmSelect:      "cm_select",
	CmConnection:  "cm_connection",
	CmFunctionDef: "cm_function_def",
	CmUntil:       "cm_until",
	CmGroup:       "cm_group",
	CmArith:       "cm_arith",
	CmCond:        "cm_cond",
	CmArithFor:    "cm_arith_for",
	CmSubshell:    "cm_subshell",
	CmCoproc:      "cm_coproc",
}

// Names whose struct can't be derived from the enum name.
var irregularStructs = map[string]string{
	"cm_connection":   "CONNECTION",
	"cm_function_def": "FUNCTION_DEF",
	"cm_until":        "WHILE_COM",
}

func (c CommandType) Valid() bool {
	return c >= 0 && int(c) < len(commandTypeNames)
}

func (c CommandType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("cm_?(%d)", int(c))
	}
	return commandTypeNames[c]
}

// StructName is the name of the struct the union member points to.
func (c CommandType) StructName() (string, bool) {
	if !c.Valid() {
		return "", false
	}
	return StructForTypeName(c.String()), true
}

// StructForTypeName maps an enum constant name such as "cm_arith_for" to its
// struct ("ARITH_FOR_COM").
func StructForTypeName(name string) string {
	if s, ok := irregularStructs[name]; ok {
		return s
	}
	return strings.ToUpper(strings.TrimPrefix(name, "cm_")) + "_COM"
}

func ParseCommandType(name string) (CommandType, bool) {
	for i, n := range commandTypeNames {
		if n == name {
			return CommandType(i), true
		}
	}
	return 0, false
}

// VariantStructs lists every distinct struct a COMMAND can point to.
var VariantStructs = []string{
	"FOR_COM",
	"CASE_COM",
	"WHILE_COM",
	"IF_COM",
	"SIMPLE_COM",
	"SELECT_COM",
	"CONNECTION",
	"FUNCTION_DEF",
	"GROUP_COM",
	"ARITH_COM",
	"COND_COM",
	"ARITH_FOR_COM",
	"SUBSHELL_COM",
	"COPROC_COM",
}
