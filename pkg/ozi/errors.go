package ozi

import "fmt"

// ValidationError reports a missing required field or an unrecognised
// attribute.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid waypoint: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FormatError reports a header or record line that does not follow the file
// grammar. Line is 1-based and zero when unknown.
type FormatError struct {
	Line   int
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "malformed file: " + msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ForbiddenCharacterError reports a text field containing a delimiter that the
// target format has no way to escape.
type ForbiddenCharacterError struct {
	Field string
	Value string
	Char  rune
}

func (e *ForbiddenCharacterError) Error() string {
	return fmt.Sprintf("%s %q cannot contain %q", e.Field, e.Value, e.Char)
}
