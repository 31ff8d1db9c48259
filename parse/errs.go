package parse

import (
	"fmt"

	"github.com/yamldoc/go-yamldoc/format"
	"github.com/yamldoc/go-yamldoc/token"
)

// ParseError is a structural parse failure. It wraps format.ErrParse and
// carries the source position of the offending bytes.
type ParseError struct {
	Msg string
	Pos token.Pos
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s: %s", format.ErrParse, e.Msg, e.Pos.String())
}

func (e *ParseError) Unwrap() error {
	return format.ErrParse
}
