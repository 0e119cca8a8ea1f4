// Package video adapts the ffmpeg and ffprobe command line tools to the frame
// package's Decoder and Writer interfaces.
package video

import (
	"go.uber.org/zap"
)

// Toolchain locates the ffmpeg binaries and carries the encoding choices
// shared by every adapter.
type Toolchain struct {
	FFmpeg  string
	FFprobe string
	// Codec is the encoder used for exported clips.
	Codec  string
	Logger *zap.Logger
}

// DefaultCodec is the encoder used when Toolchain.Codec is empty.
const DefaultCodec = "libx264"

// NewToolchain returns a Toolchain with defaults for empty fields.
func NewToolchain(ffmpeg, ffprobe, codec string, logger *zap.Logger) *Toolchain {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if codec == "" {
		codec = DefaultCodec
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toolchain{FFmpeg: ffmpeg, FFprobe: ffprobe, Codec: codec, Logger: logger}
}
