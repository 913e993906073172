package configio

import "errors"

var (
	// ErrNotFound reports a configuration or input source that does not exist.
	ErrNotFound = errors.New("source not found")
	// ErrParse reports malformed numeric text or a wrong token count.
	ErrParse = errors.New("parse error")
	// ErrIOFailure reports any other read failure.
	ErrIOFailure = errors.New("io failure")
)
