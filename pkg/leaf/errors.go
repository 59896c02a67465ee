package leaf

import (
	"errors"
	"fmt"
)

// Error annotates a failure with the name of the leaf that produced it.
type Error struct {
	LeafName string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("leaf %q: %v", e.LeafName, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// annotate wraps err with name unless it already carries a leaf name.
func annotate(err error, name string) error {
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{LeafName: name, Err: err}
}

// NameOf returns the leaf name carried by err, if any.
func NameOf(err error) (string, bool) {
	var le *Error
	if errors.As(err, &le) && le.LeafName != "" {
		return le.LeafName, true
	}
	return "", false
}

// Cause strips the leaf annotation from err.
func Cause(err error) error {
	var le *Error
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
