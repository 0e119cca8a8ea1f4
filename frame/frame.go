// Package frame provides frame-accurate positioning on top of a decoder whose
// seeks may land on a neighbouring frame or find no frame at all.
package frame

import "time"

// Info describes the video stream of a source.
type Info struct {
	Width  int
	Height int
	// FPS is the average frame rate as a float.
	FPS float64
	// FrameRate is the rational frame rate as reported by the container (e.g. "30000/1001").
	FrameRate  string
	FrameCount int
	Duration   time.Duration
	// StartTime is the stream's first presentation timestamp.
	StartTime time.Duration
	Codec     string
}

// MaxFrame returns the highest valid frame index, or -1 for an empty source.
func (i Info) MaxFrame() int {
	return i.FrameCount - 1
}

// FrameSize returns the size in bytes of one packed RGB24 frame.
func (i Info) FrameSize() int {
	return i.Width * i.Height * 3
}

// StepFPS returns the frame rate truncated to a whole number of frames, at least 1.
func (i Info) StepFPS() int {
	n := int(i.FPS)
	if n < 1 {
		return 1
	}
	return n
}

// Decoder is a seekable frame source.
//
// Position and Elapsed describe the frame returned by the most recent
// successful Read. Read reports ok=false when no frame could be decoded at the
// current position; err is reserved for fatal decoder failures.
type Decoder interface {
	Seek(index int) error
	Read() (payload []byte, ok bool, err error)
	Position() int
	Elapsed() time.Duration
	Info() Info
	Close() error
}

// Writer is an ordered frame sink. Close flushes and finalizes the output.
type Writer interface {
	WriteFrame(payload []byte) error
	Close() error
}

// Direction is the scan direction of a correction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Step returns +1 for Forward and -1 for Backward.
func (d Direction) Step() int {
	if d == Backward {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Resolved is a frame the decoder delivered at exactly Index.
type Resolved struct {
	Index   int
	Payload []byte
	// Elapsed is the time since the start of the source at this frame.
	Elapsed time.Duration
}

// Range is a closed [Start, End] frame range.
type Range struct {
	Start int
	End   int
}

// Validate returns ErrInvalidRange unless Start < End and Start is non-negative.
func (r Range) Validate() error {
	if r.Start < 0 || r.Start >= r.End {
		return invalidRange(r)
	}
	return nil
}

// Len returns the number of frames a gap-free source yields for the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}
