package repository

import (
	"strings"
)

// rowsOf flattens the per-statement results of a Query call into one row
// slice. Scalar statements and empty matches contribute nothing.
func rowsOf(results []interface{}) []interface{} {
	var rows []interface{}
	for _, stmt := range results {
		if stmtRows, ok := stmt.([]interface{}); ok {
			rows = append(rows, stmtRows...)
		}
	}
	return rows
}

// stringField reads a string out of a row map, returning "" when the
// field is absent or not a string.
func stringField(row map[string]interface{}, key string) string {
	s, _ := row[key].(string)
	return s
}

// isUniqueIndexError reports whether err looks like a hit on the
// activity_name_unique index. SurrealDB surfaces index violations only
// through the error text, so the check is by message.
func isUniqueIndexError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"unique", "duplicate", "already exists"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
