package db

import "errors"

// Sentinel errors for storage operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrClosed      = errors.New("db: store closed")
)

// Op constants name the failing storage operation for error context.
const (
	OpOpen    = "OPEN"
	OpMigrate = "MIGRATE"
	OpPing    = "PING"
	OpInsert  = "INSERT"
	OpSelect  = "SELECT"
	OpCount   = "COUNT"
	OpGet     = "GET"
	OpSet     = "SET"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
