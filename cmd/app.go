package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/user/framecut-cli/clip"
	"github.com/user/framecut-cli/config"
	"github.com/user/framecut-cli/db"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/logging"
	"github.com/user/framecut-cli/tui/forms"
	"github.com/user/framecut-cli/video"
)

// flag values shared by the commands; config supplies the defaults
var flags struct {
	logLevel           string
	dataDir            string
	noHistory          bool
	codec              string
	timestampOffset    time.Duration
	creationTimeOffset time.Duration
	origin             string
	noRemux            bool
	meta               bool
	yes                bool
}

// app is the wiring shared by every command that touches a video.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	tools *video.Toolchain
	db    *sql.DB
}

// newApp loads config, applies flag overrides and builds the logger. When
// logToFile is set the log goes to the data dir so an alternate screen UI is
// not disturbed.
func newApp(cmd commandFlags, logToFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)

	logPath := cfg.LogFile
	if logToFile {
		logPath = cfg.LogPath()
	}
	log, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		tools: video.NewToolchain(cfg.FFmpeg, cfg.FFprobe, cfg.Codec, log),
	}

	if cfg.History {
		database, err := db.Open(db.DefaultPath(cfg.DataDir))
		if err != nil {
			// history is bookkeeping; an export still works without it
			log.Warn("export history unavailable", zap.Error(err))
		} else {
			a.db = database
		}
	}
	return a, nil
}

// commandFlags is the part of *cobra.Command newApp needs.
type commandFlags interface {
	Changed(name string) bool
}

func applyFlags(cmd commandFlags, cfg *config.Config) {
	if cmd.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Changed("data-dir") {
		cfg.DataDir = flags.dataDir
	}
	if cmd.Changed("no-history") {
		cfg.History = !flags.noHistory
	}
	if cmd.Changed("codec") {
		cfg.Codec = flags.codec
	}
	if cmd.Changed("timestamp-offset") {
		cfg.TimestampOffset = flags.timestampOffset
	}
	if cmd.Changed("creation-time-offset") {
		cfg.CreationTimeOffset = flags.creationTimeOffset
	}
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	_ = a.log.Sync()
}

// source is an opened video ready for navigation or export.
type source struct {
	path      string
	probe     *video.Probe
	dec       *video.Decoder
	origin    time.Time
	hasOrigin bool
}

// openSource probes path and opens a decoder on it. --origin overrides the
// container's creation_time.
func (a *app) openSource(ctx context.Context, path string) (*source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if err := forms.ValidateVideoPath(absPath); err != nil {
		return nil, fmt.Errorf("%w: %w", frame.ErrSourceUnreadable, err)
	}

	p, err := a.tools.Probe(ctx, absPath)
	if err != nil {
		return nil, err
	}

	src := &source{path: absPath, probe: p}
	switch {
	case flags.origin != "":
		src.origin, err = video.ParseOrigin(flags.origin)
		if err != nil {
			return nil, fmt.Errorf("--origin: %w", err)
		}
		src.hasOrigin = true
	case p.OriginErr == nil:
		src.origin, src.hasOrigin = p.Origin, true
	default:
		a.log.Warn("recording origin unknown, timestamps count from zero", zap.Error(p.OriginErr))
	}

	src.dec, err = a.tools.OpenDecoder(absPath, p.Info)
	if err != nil {
		return nil, err
	}
	a.log.Info("source opened",
		zap.String("video", absPath),
		zap.Int("frames", p.Info.FrameCount),
		zap.String("frame_rate", p.Info.FrameRate),
		zap.Time("origin", src.origin),
	)
	return src, nil
}

func (s *source) Close() error {
	return s.dec.Close()
}

// processor builds the export pipeline from config and flags.
func (a *app) processor() *clip.Processor {
	p := &clip.Processor{
		DB:                 a.db,
		Logger:             a.log,
		Exporter:           &clip.Exporter{Stamper: a.cfg.Stamper(), Logger: a.log},
		Open:               a.tools.OpenWriter,
		CreationTimeOffset: a.cfg.CreationTimeOffset,
	}
	if !flags.noRemux {
		p.Remux = a.tools.Remux
	}
	return p
}

// confirmOverwrite asks before replacing outputs of a previous export.
// It returns false when the user declines.
func confirmOverwrite(paths clip.Paths) (bool, error) {
	var existing []string
	for _, p := range []string{paths.Output, paths.Record, paths.Intermediate} {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 || flags.yes {
		return true, nil
	}

	overwrite := false
	if err := forms.NewConfirmOverwriteForm(existing, &overwrite).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return overwrite, nil
}

// writeMeta dumps the probe output next to the clip when --meta is set.
func (a *app) writeMeta(src *source, paths clip.Paths) {
	if !flags.meta {
		return
	}
	if err := clip.WriteMeta(paths.Meta, src.probe.Raw); err != nil {
		a.log.Warn("metadata dump failed", zap.String("path", paths.Meta), zap.Error(err))
	}
}

func printResult(r *clip.Result) {
	fmt.Printf("Exported %d frames\n", r.Frames)
	fmt.Printf("  clip:       %s\n", r.Output)
	fmt.Printf("  timestamps: %s\n", r.Record)
	if !r.CreationTime.IsZero() {
		fmt.Printf("  creation:   %s\n", video.FormatCreationTime(r.CreationTime))
	}
}
