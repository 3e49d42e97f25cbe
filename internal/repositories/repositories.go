// package repositories provides the SQLite persistence layer.
//
// GuestRepository covers the read-mostly guest directory, ResponseRepository
// the one-row-per-guest RSVP responses, RequestRepository the song request
// log. All queries exclude nothing: there are no soft deletes in this schema,
// the directory is append-only and responses are replaced in place.
package repositories

import (
	"database/sql"
	"time"
)

// nullString maps an optional column value: empty string stores as NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// stringValue unwraps a nullable column back to a plain string.
func stringValue(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

var now = time.Now
