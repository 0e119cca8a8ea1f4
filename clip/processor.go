package clip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/framecut-cli/db"
	"github.com/user/framecut-cli/frame"
)

// WriterFactory opens the output stream for a clip of the given source.
type WriterFactory func(path string, info frame.Info) (frame.Writer, error)

// RemuxFunc copies in to out, stamping the container with creation.
type RemuxFunc func(ctx context.Context, in, out string, creation time.Time) error

// Processor runs one export job end to end: range check, frame export,
// timestamp record, creation_time remux and history bookkeeping.
type Processor struct {
	// DB is the export history; nil disables it.
	DB       *sql.DB
	Logger   *zap.Logger
	Exporter *Exporter
	Open     WriterFactory
	// Remux is optional; without it the intermediate clip is the final output.
	Remux RemuxFunc
	// CreationTimeOffset shifts the creation_time written by Remux.
	CreationTimeOffset time.Duration
}

// Job describes one clip to export.
type Job struct {
	VideoPath string
	Range     frame.Range
	Origin    time.Time
	Paths     Paths
}

// Result summarises a finished export.
type Result struct {
	ID     string
	Frames int
	Stamps *TimestampMap
	// Output is the clip the caller should use.
	Output       string
	Record       string
	CreationTime time.Time
}

// Run exports job from dec. An invalid range is rejected before any I/O.
// On cancellation the clip written so far is finalized, no record is
// persisted and the context error is returned.
func (p *Processor) Run(ctx context.Context, dec frame.Decoder, job Job) (*Result, error) {
	if err := job.Range.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := p.logger().With(zap.String("export_id", id), zap.String("video", job.VideoPath))

	p.history(log, func(d *sql.DB) error {
		return db.InsertExport(d, db.Export{
			ID:         id,
			VideoPath:  job.VideoPath,
			StartFrame: job.Range.Start,
			EndFrame:   job.Range.End,
			OutputPath: job.Paths.Output,
			RecordPath: job.Paths.Record,
			Origin:     job.Origin.UTC().Format(time.RFC3339Nano),
		})
	})
	p.history(log, func(d *sql.DB) error {
		return db.MarkExportProcessing(d, id, time.Now())
	})

	result, err := p.run(ctx, dec, job, log)
	switch {
	case err == nil:
		result.ID = id
		var size int64
		if info, statErr := os.Stat(result.Output); statErr == nil {
			size = info.Size()
		}
		p.history(log, func(d *sql.DB) error {
			return db.MarkExportComplete(d, id, time.Now(), result.Frames, size)
		})
		log.Info("clip exported", zap.Int("frames", result.Frames), zap.String("output", result.Output))
		return result, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		p.history(log, func(d *sql.DB) error {
			return db.MarkExportCancelled(d, id, time.Now())
		})
		log.Warn("export cancelled, timestamp record discarded")
		return nil, err
	default:
		p.history(log, func(d *sql.DB) error {
			return db.MarkExportError(d, id, time.Now(), err.Error())
		})
		return nil, err
	}
}

func (p *Processor) run(ctx context.Context, dec frame.Decoder, job Job, log *zap.Logger) (*Result, error) {
	w, err := p.Open(job.Paths.Intermediate, dec.Info())
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", frame.ErrWriterFailure, job.Paths.Intermediate, err)
	}

	stamps, err := p.Exporter.Export(ctx, dec, w, job.Range, job.Origin)
	if err != nil {
		return nil, err
	}

	if err := WriteRecord(job.Paths.Record, stamps); err != nil {
		return nil, err
	}

	result := &Result{
		Frames: stamps.Len(),
		Stamps: stamps,
		Output: job.Paths.Intermediate,
		Record: job.Paths.Record,
	}

	if p.Remux == nil {
		return result, nil
	}
	if stamps.Len() == 0 {
		log.Warn("no frames written, skipping remux")
		return result, nil
	}

	result.CreationTime = stamps.At(0).Instant.Add(p.CreationTimeOffset)
	if err := p.Remux(ctx, job.Paths.Intermediate, job.Paths.Output, result.CreationTime); err != nil {
		return nil, fmt.Errorf("remux %s: %w", job.Paths.Output, err)
	}
	result.Output = job.Paths.Output
	return result, nil
}

// history applies fn to the export history when one is wired. Bookkeeping
// failures are logged and never fail an export.
func (p *Processor) history(log *zap.Logger, fn func(*sql.DB) error) {
	if p.DB == nil {
		return
	}
	if err := fn(p.DB); err != nil {
		log.Warn("export history not updated", zap.Error(err))
	}
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
