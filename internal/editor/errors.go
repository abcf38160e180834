package editor

import "errors"

var (
	// ErrCancelled is returned when the user dismissed a file picker.
	// The operation is aborted without any state change.
	ErrCancelled = errors.New("cancelled")

	// ErrDecode is returned when a source file can't be read or decoded.
	ErrDecode = errors.New("cannot decode image")

	// ErrEncode is returned when an image can't be encoded or written.
	ErrEncode = errors.New("cannot encode image")

	// ErrInvalidState is returned when an operation needs a loaded image.
	ErrInvalidState = errors.New("no image loaded")

	// ErrInvalidValue is returned for out of range scale values.
	ErrInvalidValue = errors.New("invalid value")
)
