package storage

import "fmt"

// Error represents a storage failure for an object key.
type Error struct {
	Key     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	target := e.Key
	if target == "" {
		target = "storage"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", target, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", target, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
