// Package domain holds the core record types shared by the store,
// the controllers and the HTTP layer. Records carry store-assigned
// integer ids and RFC3339 timestamps; the store is the only component
// allowed to assign ids or stamp timestamps.
package domain
