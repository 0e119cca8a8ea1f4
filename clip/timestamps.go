package clip

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// DefaultLayout renders microsecond precision with the zone designator
// ("Z" for UTC, "+hh:mm" otherwise).
const DefaultLayout = "2006-01-02T15:04:05.000000Z07:00"

// Stamper renders wall-clock instants for the timestamp record.
type Stamper struct {
	// Layout is a Go time layout; DefaultLayout when empty.
	Layout string
	// Offset is the UTC offset the instant is rendered in.
	Offset time.Duration
}

// Format renders t in the stamper's zone and layout.
func (s Stamper) Format(t time.Time) string {
	layout := s.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return t.In(s.Location()).Format(layout)
}

// Location returns the fixed zone for Offset.
func (s Stamper) Location() *time.Location {
	if s.Offset == 0 {
		return time.UTC
	}
	return time.FixedZone("", int(s.Offset/time.Second))
}

// Stamp is the timing of one output frame.
type Stamp struct {
	// Source is the frame index in the input video.
	Source  int
	Elapsed time.Duration
	Instant time.Time
	Text    string
}

// TimestampMap maps dense output frame numbers to wall-clock strings.
// It is only appended to by the exporter that owns it.
type TimestampMap struct {
	stamps []Stamp
}

func (m *TimestampMap) add(s Stamp) {
	m.stamps = append(m.stamps, s)
}

// Len returns the number of output frames recorded.
func (m *TimestampMap) Len() int {
	return len(m.stamps)
}

// At returns the stamp of output frame n.
func (m *TimestampMap) At(n int) Stamp {
	return m.stamps[n]
}

// Key returns the record key of output frame n.
func Key(n int) string {
	return "Frame" + strconv.Itoa(n)
}

// MarshalJSON writes {"Frame0": "...", "Frame1": "...", ...} in ascending order.
func (m *TimestampMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, s := range m.stamps {
		if n > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(Key(n))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
