package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/framecut-cli/frame"
)

// ErrNoOrigin is returned when the container carries no creation_time tag.
var ErrNoOrigin = errors.New("no creation_time tag in container metadata")

// Probe is what ffprobe reports about a source.
type Probe struct {
	Info frame.Info
	// Origin is the recording start time; zero when OriginErr is set.
	Origin    time.Time
	OriginErr error
	// Raw is ffprobe's JSON output.
	Raw []byte
}

type probeStream struct {
	CodecType    string            `json:"codec_type"`
	CodecName    string            `json:"codec_name"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	RFrameRate   string            `json:"r_frame_rate"`
	AvgFrameRate string            `json:"avg_frame_rate"`
	NbFrames     string            `json:"nb_frames"`
	Duration     string            `json:"duration"`
	StartTime    string            `json:"start_time"`
	Tags         map[string]string `json:"tags"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration  string            `json:"duration"`
		StartTime string            `json:"start_time"`
		Tags      map[string]string `json:"tags"`
	} `json:"format"`
}

// Probe runs ffprobe on path.
func (t *Toolchain) Probe(ctx context.Context, path string) (*Probe, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", frame.ErrSourceUnreadable, err)
	}

	cmd := exec.CommandContext(ctx, t.FFprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: ffprobe: %w: %s", frame.ErrSourceUnreadable, err, strings.TrimSpace(stderr.String()))
	}

	p, err := ParseProbe(out)
	if err != nil {
		return nil, err
	}
	t.Logger.Debug("probed source",
		zap.String("path", path),
		zap.Int("frames", p.Info.FrameCount),
		zap.Float64("fps", p.Info.FPS),
		zap.Int("width", p.Info.Width),
		zap.Int("height", p.Info.Height),
	)
	return p, nil
}

// ParseProbe interprets ffprobe JSON output. The first video stream is used.
func ParseProbe(raw []byte) (*Probe, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe output: %w", frame.ErrSourceUnreadable, err)
	}

	var vs *probeStream
	for i := range out.Streams {
		if out.Streams[i].CodecType == "video" {
			vs = &out.Streams[i]
			break
		}
	}
	if vs == nil {
		return nil, fmt.Errorf("%w: no video stream", frame.ErrSourceUnreadable)
	}

	rate := vs.AvgFrameRate
	fps := parseRational(rate)
	if fps <= 0 {
		rate = vs.RFrameRate
		fps = parseRational(rate)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%w: unknown frame rate", frame.ErrSourceUnreadable)
	}

	duration := parseSeconds(vs.Duration)
	if duration == 0 {
		duration = parseSeconds(out.Format.Duration)
	}

	count, err := strconv.Atoi(vs.NbFrames)
	if err != nil || count <= 0 {
		count = int(math.Round(duration.Seconds() * fps))
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: video path can't be recognized (no frames)", frame.ErrSourceUnreadable)
	}

	p := &Probe{
		Info: frame.Info{
			Width:      vs.Width,
			Height:     vs.Height,
			FPS:        fps,
			FrameRate:  rate,
			FrameCount: count,
			Duration:   duration,
			StartTime:  parseSeconds(vs.StartTime),
			Codec:      vs.CodecName,
		},
		Raw: raw,
	}

	// The stream tag is authoritative; the format tag is the fallback.
	tagSets := []map[string]string{vs.Tags}
	if len(out.Streams) > 0 {
		tagSets = append(tagSets, out.Streams[0].Tags)
	}
	tagSets = append(tagSets, out.Format.Tags)
	p.Origin, p.OriginErr = originFromTags(tagSets...)

	return p, nil
}

// originFromTags returns the first creation_time that parses. When tags exist
// but none parses, the first parse error is returned.
func originFromTags(sets ...map[string]string) (time.Time, error) {
	var firstErr error
	for _, tags := range sets {
		v, ok := tags["creation_time"]
		if !ok || v == "" {
			continue
		}
		t, err := ParseOrigin(v)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return t, nil
	}
	if firstErr != nil {
		return time.Time{}, firstErr
	}
	return time.Time{}, ErrNoOrigin
}

// ParseOrigin parses a creation_time value such as "2024-05-01T10:00:00.000000Z".
func ParseOrigin(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid creation_time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// parseRational parses "30000/1001" or "25" into a float; 0 when invalid.
func parseRational(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
