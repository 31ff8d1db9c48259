package bind

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the class of typed read failures: the node's text could
	// not be interpreted as the requested type.
	ErrDecode = errors.New("decode error")
	// ErrNoLocations means location data was requested but the document
	// was read without location tracking.
	ErrNoLocations = errors.New("locations not tracked")
	// ErrInvalidNode means a typed read was attempted on an invalid cursor.
	ErrInvalidNode = errors.New("invalid node")
)

// Location identifies a source position for diagnostics. Line and Col are
// 1-based.
type Location struct {
	Name string
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Name, l.Line, l.Col)
}

// DecodeError is a typed read failure. It carries the source location when
// the document tracks locations, and the name of the requested type.
type DecodeError struct {
	Loc  *Location
	Type string
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = fmt.Sprintf("could not decode value as %s", e.Type)
	}
	if e.Loc != nil {
		return fmt.Sprintf("%s: %s", e.Loc, msg)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrDecode
}

// Is makes every DecodeError match ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
