package db

import "fmt"

// Op identifies the failing database operation.
type Op string

const (
	OpConnect Op = "connect"
	OpPing    Op = "ping"
	OpHGetAll Op = "hgetall"
	OpScan    Op = "scan"
	OpSearch  Op = "search"
)

// Error wraps a database failure with its operation.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("db %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
