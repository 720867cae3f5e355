package stream

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a failure class in stream resolution.
type ErrorCode string

// Error codes
const (
	CodeMalformedReference       ErrorCode = "MALFORMED_REFERENCE"
	CodeInvalidAttribute         ErrorCode = "INVALID_ATTRIBUTE"
	CodeSelfReference            ErrorCode = "SELF_REFERENCE"
	CodeUnresolvableReference    ErrorCode = "UNRESOLVABLE_REFERENCE"
	CodeStreamNotFound           ErrorCode = "STREAM_NOT_FOUND"
	CodeMissingAttribute         ErrorCode = "MISSING_ATTRIBUTE"
	CodeMissingRequiredAttribute ErrorCode = "MISSING_REQUIRED_ATTRIBUTE"
	CodeDirectoryCreateFailed    ErrorCode = "DIRECTORY_CREATE_FAILED"
	CodeDirectoryNotWritable     ErrorCode = "DIRECTORY_NOT_WRITABLE"
)

var messages = map[ErrorCode]string{
	CodeMalformedReference:       "malformed interval reference (missing ':')",
	CodeInvalidAttribute:         "invalid referenced attribute",
	CodeSelfReference:            "self-referencing interval",
	CodeUnresolvableReference:    "recursive or unexpandable interval reference",
	CodeStreamNotFound:           "referenced stream not found",
	CodeMissingAttribute:         "referenced attribute missing in target stream",
	CodeMissingRequiredAttribute: "missing required attribute",
	CodeDirectoryCreateFailed:    "failed to create output directory",
	CodeDirectoryNotWritable:     "output directory is not writable",
}

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrMalformedReference       = &Error{Code: CodeMalformedReference}
	ErrInvalidAttribute         = &Error{Code: CodeInvalidAttribute}
	ErrSelfReference            = &Error{Code: CodeSelfReference}
	ErrUnresolvableReference    = &Error{Code: CodeUnresolvableReference}
	ErrStreamNotFound           = &Error{Code: CodeStreamNotFound}
	ErrMissingAttribute         = &Error{Code: CodeMissingAttribute}
	ErrMissingRequiredAttribute = &Error{Code: CodeMissingRequiredAttribute}
	ErrDirectoryCreateFailed    = &Error{Code: CodeDirectoryCreateFailed}
	ErrDirectoryNotWritable     = &Error{Code: CodeDirectoryNotWritable}
)

// Error describes a resolution or output path failure for one stream.
type Error struct {
	Code ErrorCode
	// StreamID is the stream being resolved.
	StreamID string
	// Attribute is the attribute being resolved on StreamID.
	Attribute string
	// Target is the raw reference text for reference errors.
	Target string
	// Path is the directory for output path errors.
	Path  string
	Cause error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(messages[e.Code])
	if e.StreamID != "" {
		fmt.Fprintf(&sb, " (stream %q", e.StreamID)
		if e.Attribute != "" {
			fmt.Fprintf(&sb, ", attribute %q", e.Attribute)
		}
		sb.WriteString(")")
	}
	if e.Target != "" {
		fmt.Fprintf(&sb, ": %q", e.Target)
	}
	if e.Path != "" {
		fmt.Fprintf(&sb, ": %q", e.Path)
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func newReferenceError(code ErrorCode, streamID string, attr IntervalKind, target string) *Error {
	return &Error{Code: code, StreamID: streamID, Attribute: string(attr), Target: target}
}
