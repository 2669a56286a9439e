// Package store defines the sentinel errors shared by all persistent
// store engines. The per-collection repository contracts live next to
// their consumers: service/contact and service/campaign declare the
// interfaces they need, and the engines under store/sqlite and
// store/redisstore implement them.
package store

import "errors"

var (
	// ErrNotFound is returned when a referenced record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable is returned when the underlying storage engine
	// cannot be opened.
	ErrUnavailable = errors.New("storage unavailable")
)
