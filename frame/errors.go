package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnreadable is returned when the input is missing or cannot be decoded.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrFrameUnresolvable is returned when a correction leaves its bound without finding a frame.
	ErrFrameUnresolvable = errors.New("frame unresolvable")
	// ErrInvalidRange is returned when a clip range does not satisfy start < end.
	ErrInvalidRange = errors.New("invalid clip range")
	// ErrWriterFailure is returned when the output stream could not be written or finalized.
	ErrWriterFailure = errors.New("writer failure")
)

func invalidRange(r Range) error {
	return fmt.Errorf("%w: start frame %d must be less than end frame %d", ErrInvalidRange, r.Start, r.End)
}
