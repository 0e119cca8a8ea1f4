package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// CreationTimeLayout is the creation_time format ffmpeg writes into MP4 headers.
const CreationTimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatCreationTime renders t in UTC for the creation_time tag.
func FormatCreationTime(t time.Time) string {
	return t.UTC().Format(CreationTimeLayout)
}

// Remux stream-copies in to out and stamps the container and video stream
// with creation. It satisfies clip.RemuxFunc.
func (t *Toolchain) Remux(ctx context.Context, in, out string, creation time.Time) error {
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.FFmpeg, remuxArgs(in, out, creation)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\n%s", err, string(output))
	}

	t.Logger.Debug("remuxed clip",
		zap.String("input", in),
		zap.String("output", out),
		zap.String("creation_time", FormatCreationTime(creation)),
	)
	return nil
}

func remuxArgs(in, out string, creation time.Time) []string {
	stamp := "creation_time=" + FormatCreationTime(creation)
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", in,
		"-map", "0",
		"-c", "copy",
		"-metadata", stamp,
		"-metadata:s:v:0", stamp,
		out,
	}
}
