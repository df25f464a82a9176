// Package repository implements data access over database/sql. Sentinel
// errors defined here let handlers map persistence failures onto the HTTP
// taxonomy without inspecting driver errors themselves.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when an id does not resolve to a row. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (duplicate email, duplicate (month, category) pair, ...). Handlers
// translate it into HTTP 409.
var ErrDuplicate = errors.New("duplicate entry")

// ErrAlreadyReviewed is returned when a review targets a record that has
// already reached a terminal status. The review update is a compare-and-swap
// on status='pending'; the losing writer gets this error, never a silent
// overwrite. Handlers translate it into HTTP 409.
var ErrAlreadyReviewed = errors.New("record already reviewed")

// ErrAlreadyClaimed is returned when a voice actor tries to claim a script
// that is no longer unassigned.
var ErrAlreadyClaimed = errors.New("script already claimed")

// isDuplicate classifies a driver error as a uniqueness violation
// (MySQL error 1062).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
