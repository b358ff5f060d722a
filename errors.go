package officeconv

import (
	"errors"
	"fmt"

	"github.com/tsawler/officeconv/format"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	// ErrUnsupported indicates an unrecognised input format.
	ErrUnsupported = errors.New("unsupported format")
	// ErrIO indicates the input could not be read.
	ErrIO = errors.New("i/o error")
	// ErrParse indicates the input is not a valid instance of its format.
	ErrParse = errors.New("parse error")
	// ErrRender indicates markup generation or the render backend failed.
	ErrRender = errors.New("render error")
)

// UnsupportedFormatError reports a file type no parser handles.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported format: unrecognised content"
	}
	return fmt.Sprintf("unsupported format: %q", e.Extension)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return ErrUnsupported
}

// IOError reports a source that could not be read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes every IOError match ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ParseError reports a structural failure of the input: a bad container,
// a missing mandatory part, or a parser fault.
type ParseError struct {
	Format format.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrParse
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// RenderError reports a failure after parsing. Stage is "generate" for
// markup generation or the backend's name.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render (%s): %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrRender
}

// Is makes every RenderError match ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
