package dbx

import "database/sql"

// NullString turns an empty string into a SQL NULL argument.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullJSON turns an empty JSON document into a SQL NULL argument.
func NullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// StringOrEmpty unwraps a scanned nullable column.
func StringOrEmpty(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
