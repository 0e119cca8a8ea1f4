package video

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/framecut-cli/frame"
)

var ptsTimeRe = regexp.MustCompile(`\bn:\s*\d+\s+pts:\s*-?\d+\s+pts_time:\s*(-?[0-9.]+)`)

// parsePTSTime extracts pts_time from an ffmpeg showinfo log line.
func parsePTSTime(line string) (float64, bool) {
	m := ptsTimeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// maxStderrTail bounds the diagnostic lines kept per decode process.
const maxStderrTail = 8

// Decoder streams packed RGB24 frames from an ffmpeg subprocess. Every Seek
// that is not a continuation of the current stream restarts ffmpeg at the
// requested time; the frame actually delivered is identified from its
// presentation timestamp, so a keyframe-snapped or dropped frame shows up as a
// Position different from the seek target.
type Decoder struct {
	ffmpeg string
	path   string
	info   frame.Info
	logger *zap.Logger

	cmd    *exec.Cmd
	stdout *bufio.Reader
	pts    chan float64
	done   chan struct{}
	tail   []string
	frames int

	// next is the index the running process is expected to deliver next.
	next     int
	position int
	elapsed  time.Duration
	last     []byte
	replay   bool
}

// OpenDecoder returns a Decoder over the first video stream of path, as
// described by a prior Probe. No process is started until the first Seek.
func (t *Toolchain) OpenDecoder(path string, info frame.Info) (*Decoder, error) {
	if info.FrameSize() <= 0 || info.FPS <= 0 {
		return nil, fmt.Errorf("%w: invalid stream geometry %dx%d@%g", frame.ErrSourceUnreadable, info.Width, info.Height, info.FPS)
	}
	return &Decoder{
		ffmpeg:   t.FFmpeg,
		path:     path,
		info:     info,
		logger:   t.Logger.With(zap.String("video", path)),
		position: -1,
	}, nil
}

func (d *Decoder) Info() frame.Info { return d.info }

func (d *Decoder) Position() int { return d.position }

func (d *Decoder) Elapsed() time.Duration { return d.elapsed }

// Seek positions the stream so that the next Read targets index.
func (d *Decoder) Seek(index int) error {
	if index < 0 {
		return fmt.Errorf("seek to negative frame %d", index)
	}
	if d.last != nil && index == d.position {
		d.replay = true
		return nil
	}
	d.replay = false
	if d.cmd != nil && index == d.next {
		return nil
	}
	d.stop()
	return d.start(index)
}

// Read returns the next frame. The returned slice is owned by the caller.
func (d *Decoder) Read() ([]byte, bool, error) {
	if d.replay {
		d.replay = false
		return append([]byte(nil), d.last...), true, nil
	}
	if d.cmd == nil {
		return nil, false, nil
	}

	buf := make([]byte, d.info.FrameSize())
	if _, err := io.ReadFull(d.stdout, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, false, d.finish()
		}
		return nil, false, fmt.Errorf("read ffmpeg output: %w", err)
	}
	d.frames++

	if pts, ok := <-d.pts; ok {
		d.elapsed = time.Duration((pts - d.info.StartTime.Seconds()) * float64(time.Second))
		d.position = int(math.Round(d.elapsed.Seconds() * d.info.FPS))
	} else {
		// showinfo went quiet; assume the stream is contiguous
		d.position = d.next
		d.elapsed = time.Duration(float64(d.position) / d.info.FPS * float64(time.Second))
	}
	d.next = d.position + 1
	d.last = append(d.last[:0], buf...)
	return buf, true, nil
}

// Close terminates any running ffmpeg process.
func (d *Decoder) Close() error {
	d.stop()
	d.last = nil
	return nil
}

func (d *Decoder) start(index int) error {
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "info"}
	if index > 0 {
		at := d.info.StartTime.Seconds() + float64(index)/d.info.FPS
		args = append(args, "-ss", strconv.FormatFloat(at, 'f', 6, 64))
	}
	args = append(args,
		"-copyts",
		"-i", d.path,
		"-map", "0:v:0",
		"-vf", "showinfo",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	)

	cmd := exec.Command(d.ffmpeg, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrSourceUnreadable, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", frame.ErrSourceUnreadable, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start ffmpeg: %w", frame.ErrSourceUnreadable, err)
	}

	d.cmd = cmd
	d.stdout = bufio.NewReaderSize(stdout, d.info.FrameSize())
	d.pts = make(chan float64, 256)
	d.done = make(chan struct{})
	d.tail = d.tail[:0]
	d.frames = 0
	d.next = index

	go d.scanStderr(stderr, d.pts, d.done)

	d.logger.Debug("decoder started", zap.Int("frame", index))
	return nil
}

// scanStderr forwards showinfo timestamps and keeps the last diagnostic lines.
func (d *Decoder) scanStderr(r io.Reader, pts chan<- float64, done chan<- struct{}) {
	defer close(done)
	defer close(pts)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if v, ok := parsePTSTime(line); ok {
			pts <- v
			continue
		}
		if strings.Contains(line, "Parsed_showinfo") {
			continue
		}
		d.tail = append(d.tail, line)
		if len(d.tail) > maxStderrTail {
			d.tail = d.tail[1:]
		}
	}
}

// finish reaps a process whose output ended. A process that failed before
// producing any frame means the source itself cannot be decoded.
func (d *Decoder) finish() error {
	cmd, frames := d.cmd, d.frames
	go drain(d.pts)
	<-d.done
	err := cmd.Wait()
	tail := strings.Join(d.tail, "\n")
	d.cmd = nil
	d.next = -1

	if err != nil && frames == 0 {
		return fmt.Errorf("%w: ffmpeg: %w: %s", frame.ErrSourceUnreadable, err, tail)
	}
	if err != nil {
		d.logger.Warn("decoder exited with error", zap.Error(err), zap.String("stderr", tail))
	}
	return nil
}

func (d *Decoder) stop() {
	if d.cmd == nil {
		return
	}
	_ = d.cmd.Process.Kill()
	go drain(d.pts)
	<-d.done
	_ = d.cmd.Wait()
	d.cmd = nil
	d.next = -1
}

// drain unblocks scanStderr when timestamps are no longer consumed.
func drain(pts <-chan float64) {
	for range pts {
	}
}
