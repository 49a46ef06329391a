package client

import (
	"regexp"
	"strings"
)

var (
	returningClausePattern  = regexp.MustCompile(`(?i)\breturning\b`)
	generatedCommandPattern = regexp.MustCompile(`(?i)^\s*(delete|insert|update)\b`)
)

// hasReturningClause reports whether the SQL already requests generated
// column output.
func hasReturningClause(sql string) bool {
	return returningClausePattern.MatchString(sql)
}

// isSupportedCommand reports whether the SQL's leading command verb can
// return generated values.
func isSupportedCommand(sql string) bool {
	return generatedCommandPattern.MatchString(sql)
}

// augmentReturning appends a generated-column-returning clause listing the
// given columns, or all columns when none are given.
func augmentReturning(sql string, columns []string) string {
	if len(columns) == 0 {
		return sql + " RETURNING *"
	}
	return sql + " RETURNING " + strings.Join(columns, ", ")
}
