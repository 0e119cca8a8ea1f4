// Package frametest provides deterministic in-memory decoders and writers for
// testing code built on package frame.
package frametest

import (
	"errors"
	"fmt"
	"time"

	"github.com/user/framecut-cli/frame"
)

// Decoder is a fake frame.Decoder over a synthetic source.
//
// Each frame's payload is its index encoded as a decimal string. Frames listed
// in Dropped cannot be decoded. Drift maps a sought index to the index the
// decoder actually lands on.
type Decoder struct {
	Frames  int
	FPS     float64
	Dropped map[int]bool
	Drift   map[int]int
	// SeekErr, when set, is returned by every Seek.
	SeekErr error

	Seeks  []int
	Reads  int
	Closed bool

	cursor   int
	position int
	elapsed  time.Duration
}

// NewDecoder returns a clean source of n frames at fps.
func NewDecoder(n int, fps float64) *Decoder {
	return &Decoder{
		Frames:   n,
		FPS:      fps,
		Dropped:  map[int]bool{},
		Drift:    map[int]int{},
		position: -1,
	}
}

// Drop marks indices as undecodable.
func (d *Decoder) Drop(indices ...int) *Decoder {
	for _, i := range indices {
		d.Dropped[i] = true
	}
	return d
}

func (d *Decoder) Seek(index int) error {
	d.Seeks = append(d.Seeks, index)
	if d.SeekErr != nil {
		return d.SeekErr
	}
	if landed, ok := d.Drift[index]; ok {
		index = landed
	}
	d.cursor = index
	return nil
}

func (d *Decoder) Read() ([]byte, bool, error) {
	d.Reads++
	// a dropped or missing frame is skipped the way a real stream would
	for d.cursor < d.Frames && d.Dropped[d.cursor] {
		d.cursor++
	}
	if d.cursor < 0 || d.cursor >= d.Frames {
		return nil, false, nil
	}
	d.position = d.cursor
	d.elapsed = FrameTime(d.cursor, d.FPS)
	d.cursor++
	return Payload(d.position), true, nil
}

func (d *Decoder) Position() int          { return d.position }
func (d *Decoder) Elapsed() time.Duration { return d.elapsed }

func (d *Decoder) Info() frame.Info {
	return frame.Info{
		Width:      2,
		Height:     2,
		FPS:        d.FPS,
		FrameRate:  fmt.Sprintf("%g", d.FPS),
		FrameCount: d.Frames,
		Duration:   FrameTime(d.Frames, d.FPS),
	}
}

func (d *Decoder) Close() error {
	d.Closed = true
	return nil
}

// FrameTime returns the presentation time of index at fps.
func FrameTime(index int, fps float64) time.Duration {
	return time.Duration(float64(index) / fps * float64(time.Second))
}

// Payload returns the payload the fake decoder produces for index.
func Payload(index int) []byte {
	return []byte(fmt.Sprintf("%d", index))
}

// ErrWrite is returned by Writer when FailAfter is reached.
var ErrWrite = errors.New("frametest: write failed")

// Writer records every frame written to it.
type Writer struct {
	Frames [][]byte
	Closed bool
	// FailAfter makes WriteFrame fail once this many frames were written; 0 disables.
	FailAfter int
	CloseErr  error
}

func (w *Writer) WriteFrame(payload []byte) error {
	if w.Closed {
		return errors.New("frametest: write after close")
	}
	if w.FailAfter > 0 && len(w.Frames) >= w.FailAfter {
		return ErrWrite
	}
	w.Frames = append(w.Frames, append([]byte(nil), payload...))
	return nil
}

func (w *Writer) Close() error {
	w.Closed = true
	return w.CloseErr
}

// Indices decodes the payloads written so far back into source indices.
func (w *Writer) Indices() []int {
	out := make([]int, 0, len(w.Frames))
	for _, f := range w.Frames {
		var i int
		fmt.Sscanf(string(f), "%d", &i)
		out = append(out, i)
	}
	return out
}
