package content

import (
	"errors"
	"fmt"
)

// Kind classifies content failures so callers can map them to UI states and
// HTTP statuses without inspecting messages.
type Kind int

const (
	KindIOFailure Kind = iota
	KindDirectoryUnreadable
	KindMalformedMetadata
	KindMalformedContent
	KindPostNotFound
	KindInvalidIdentifier
)

var kindNames = map[Kind]string{
	KindIOFailure:           "IOFailure",
	KindDirectoryUnreadable: "DirectoryUnreadable",
	KindMalformedMetadata:   "MalformedMetadata",
	KindMalformedContent:    "MalformedContent",
	KindPostNotFound:        "PostNotFound",
	KindInvalidIdentifier:   "InvalidIdentifier",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON error bodies.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinels for errors.Is. Only the Kind is compared.
var (
	ErrIOFailure           = &Error{Kind: KindIOFailure}
	ErrDirectoryUnreadable = &Error{Kind: KindDirectoryUnreadable}
	ErrMalformedMetadata   = &Error{Kind: KindMalformedMetadata}
	ErrMalformedContent    = &Error{Kind: KindMalformedContent}
	ErrPostNotFound        = &Error{Kind: KindPostNotFound}
	ErrInvalidIdentifier   = &Error{Kind: KindInvalidIdentifier}
)

// Error is the single error type returned by this package.
type Error struct {
	Kind Kind
	Op   string // "list posts", "render post", ...
	Path string // slash-separated path relative to the posts root, if any
	Err  error
}

func (e *Error) Error() string {
	msg := "content: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// AsError converts any error into an *Error. Errors that do not already
// carry a Kind become IOFailure. A nil error yields nil.
func AsError(op string, err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return newError(KindIOFailure, op, "", err)
}
