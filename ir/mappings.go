package ir

import (
	"fmt"
	"strings"
)

// pseudoColumnMappings implements the unconditional identifier-level
// substitutions of spec.md §4.4.4 (SYSDATE, SYSTIMESTAMP, USER). These
// apply wherever a bare Identifier resolves to one of these names —
// the mapping is case-insensitive since Oracle treats them as
// keywords, not catalog-backed names.
var pseudoColumnMappings = map[string]string{
	"sysdate":      "CURRENT_DATE",
	"systimestamp": "CURRENT_TIMESTAMP",
	"user":         "CURRENT_USER",
}

func mapPseudoColumn(name string) (string, bool) {
	mapped, ok := pseudoColumnMappings[strings.ToLower(name)]
	return mapped, ok
}

// postgresErrCodeFromOracle implements spec.md §4.4.4's
// RAISE_APPLICATION_ERROR mapping: n in [-20999, -20000] maps to
// SQLSTATE P0xxx where xxx = n + 20000, zero-padded to three digits.
func postgresErrCodeFromOracle(n int) (string, error) {
	if n < -20999 || n > -20000 {
		return "", fmt.Errorf("RAISE_APPLICATION_ERROR code %d is outside Oracle's user-error range [-20999, -20000]", n)
	}
	xxx := n + 20000
	return fmt.Sprintf("P0%03d", -xxx), nil
}

// setOperatorMapping implements the MINUS -> EXCEPT rewrite; the other
// set operators pass through unchanged.
func setOperatorMapping(op string) string {
	if op == "MINUS" {
		return "EXCEPT"
	}
	return op
}

// compatFunctionMappings names the package-qualified Oracle built-ins
// spec.md §4.4.4 rewrites to calls against a small compatibility
// shim schema, rather than inline Postgres syntax: SQLCODE (a bare
// pseudo-function in Oracle), DBMS_OUTPUT.PUT_LINE, and
// DBMS_UTILITY.FORMAT_ERROR_STACK.
var compatFunctionMappings = map[string]string{
	"sqlcode":                         "oracle_compat.sqlcode()",
	"dbms_output.put_line":            "oracle_compat.put_line",
	"dbms_utility.format_error_stack": "oracle_compat.format_error_stack()",
}

func mapCompatFunction(dottedName string) (string, bool) {
	mapped, ok := compatFunctionMappings[strings.ToLower(dottedName)]
	return mapped, ok
}
