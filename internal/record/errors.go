package record

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord matches every error returned by Verify and Parse.
var ErrInvalidRecord = errors.New("invalid record")

type SchemaError struct {
	Index  int
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("record %d: missing '%s' key", e.Index, e.Field)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidRecord
}

type UnsupportedTypeError struct {
	Index int
	Type  any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("record %d: unsupported type: %v", e.Index, e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrInvalidRecord
}

type TypeMismatchError struct {
	Index    int
	Name     any
	Expected Kind
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("record %d (%v): value for type '%s' must be %s, got %s",
		e.Index, e.Name, e.Expected, expectation(e.Expected), e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrInvalidRecord
}

// EncodingError reports an image value that is not strict standard base64.
type EncodingError struct {
	Index int
	Name  any
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("record %d (%v): invalid base64 encoding for image: %v", e.Index, e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrInvalidRecord
}

func expectation(kind Kind) string {
	switch kind {
	case KindImage:
		return "a base64 string or bytes"
	case KindFloat:
		return "a float or int"
	case KindInt:
		return "an int"
	default:
		return "a string"
	}
}
