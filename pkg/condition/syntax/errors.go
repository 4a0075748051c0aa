package syntax

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// FormatError reports malformed condition text. Offset and Length locate the
// offending substring within the condition.
type FormatError struct {
	Offset  int
	Length  int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("condition: offset %d: %s", e.Offset, e.Message)
}

func errorAt(start, end lexer.Position, format string, args ...any) *FormatError {
	length := end.Offset - start.Offset
	if length < 1 {
		length = 1
	}
	return &FormatError{Offset: start.Offset, Length: length, Message: fmt.Sprintf(format, args...)}
}

// wrapParseError converts a participle error into a FormatError
func wrapParseError(err error) error {
	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		length := len(unexpected.Unexpected.Value)
		if length < 1 {
			length = 1
		}
		return &FormatError{
			Offset:  unexpected.Unexpected.Pos.Offset,
			Length:  length,
			Message: unexpected.Message(),
		}
	}
	var perr participle.Error
	if errors.As(err, &perr) {
		return &FormatError{Offset: perr.Position().Offset, Length: 1, Message: perr.Message()}
	}
	return &FormatError{Message: err.Error()}
}
