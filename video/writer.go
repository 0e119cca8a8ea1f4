package video

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/user/framecut-cli/frame"
)

// Writer encodes packed RGB24 frames into a video file through ffmpeg.
type Writer struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    bytes.Buffer
	frameSize int
	path      string
	written   int
	closed    bool
	logger    *zap.Logger
}

// OpenWriter starts an encoder for path with the geometry and frame rate of
// info. It satisfies clip.WriterFactory.
func (t *Toolchain) OpenWriter(path string, info frame.Info) (frame.Writer, error) {
	if info.FrameSize() <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", info.Width, info.Height)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	rate := info.FrameRate
	if rate == "" {
		rate = strconv.FormatFloat(info.FPS, 'f', -1, 64)
	}

	w := &Writer{
		frameSize: info.FrameSize(),
		path:      path,
		logger:    t.Logger.With(zap.String("output", path)),
	}
	w.cmd = exec.Command(t.FFmpeg, writerArgs(path, info.Width, info.Height, rate, t.Codec)...)
	w.cmd.Stderr = &w.stderr

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	w.stdin = stdin
	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return w, nil
}

func writerArgs(path string, width, height int, rate, codec string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", rate,
		"-i", "pipe:0",
		"-an",
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		path,
	}
}

// WriteFrame appends one frame to the encoder input.
func (w *Writer) WriteFrame(payload []byte) error {
	if w.closed {
		return fmt.Errorf("write to closed writer %s", w.path)
	}
	if len(payload) != w.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(payload), w.frameSize)
	}
	if _, err := w.stdin.Write(payload); err != nil {
		// stderr is only safe to read after Wait; Close reports it
		return fmt.Errorf("ffmpeg input: %w", err)
	}
	w.written++
	return nil
}

// Close ends the encoder input and waits for ffmpeg to finalize the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w\n%s", err, w.stderr.String())
	}
	w.logger.Debug("encoder finished", zap.Int("frames", w.written))
	return nil
}
