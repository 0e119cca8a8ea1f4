package clip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/framecut-cli/db"
	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/frame/frametest"
)

type remuxCall struct {
	in, out  string
	creation time.Time
}

type processorFixture struct {
	proc    *Processor
	writer  *frametest.Writer
	opened  []string
	remuxes []remuxCall
	job     Job
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	dir := t.TempDir()

	database, err := db.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	f := &processorFixture{writer: &frametest.Writer{}}
	video := filepath.Join(dir, "match.mp4")
	f.job = Job{
		VideoPath: video,
		Range:     frame.Range{Start: 10, End: 20},
		Origin:    testOrigin,
		Paths:     OutputPaths(video),
	}
	f.proc = &Processor{
		DB:       database,
		Exporter: &Exporter{},
		Open: func(path string, _ frame.Info) (frame.Writer, error) {
			f.opened = append(f.opened, path)
			return f.writer, nil
		},
		Remux: func(_ context.Context, in, out string, creation time.Time) error {
			f.remuxes = append(f.remuxes, remuxCall{in: in, out: out, creation: creation})
			return os.WriteFile(out, []byte("clip"), 0644)
		},
		CreationTimeOffset: -9 * time.Hour,
	}
	return f
}

func TestProcessor_Run(t *testing.T) {
	f := newProcessorFixture(t)
	dec := frametest.NewDecoder(100, 30).Drop(15)

	result, err := f.proc.Run(context.Background(), dec, f.job)
	require.NoError(t, err)

	assert.Equal(t, 10, result.Frames)
	assert.Equal(t, f.job.Paths.Output, result.Output)
	assert.Equal(t, []string{f.job.Paths.Intermediate}, f.opened)
	assert.True(t, f.writer.Closed)

	require.Len(t, f.remuxes, 1)
	assert.Equal(t, f.job.Paths.Intermediate, f.remuxes[0].in)
	wantCreation := testOrigin.Add(frametest.FrameTime(10, 30)).Add(-9 * time.Hour)
	assert.True(t, f.remuxes[0].creation.Equal(wantCreation))

	_, err = os.Stat(f.job.Paths.Record)
	assert.NoError(t, err)

	row, err := db.SelectExportByID(f.proc.DB, result.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, db.StatusComplete, row.Status)
	assert.Equal(t, 10, row.FramesWritten)
	assert.Equal(t, int64(4), row.OutputSize)
}

func TestProcessor_InvalidRangeDoesNoIO(t *testing.T) {
	f := newProcessorFixture(t)
	f.job.Range = frame.Range{Start: 20, End: 20}

	_, err := f.proc.Run(context.Background(), frametest.NewDecoder(100, 30), f.job)

	assert.ErrorIs(t, err, frame.ErrInvalidRange)
	assert.Empty(t, f.opened)

	exports, err := db.SelectExports(f.proc.DB, 10)
	require.NoError(t, err)
	assert.Empty(t, exports)
}

func TestProcessor_CancelledDiscardsRecord(t *testing.T) {
	f := newProcessorFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.proc.Exporter.OnFrame = func(written, _ int) {
		if written == 2 {
			cancel()
		}
	}

	_, err := f.proc.Run(ctx, frametest.NewDecoder(100, 30), f.job)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.writer.Closed)
	assert.Empty(t, f.remuxes)
	_, statErr := os.Stat(f.job.Paths.Record)
	assert.True(t, os.IsNotExist(statErr), "partial record must not be persisted")

	exports, err := db.SelectExports(f.proc.DB, 10)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, db.StatusCancelled, exports[0].Status)
}

func TestProcessor_NothingWrittenSkipsRemux(t *testing.T) {
	f := newProcessorFixture(t)
	dec := frametest.NewDecoder(100, 30)
	for i := 10; i <= 20; i++ {
		dec.Drop(i)
	}

	result, err := f.proc.Run(context.Background(), dec, f.job)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Frames)
	assert.Equal(t, f.job.Paths.Intermediate, result.Output)
	assert.Empty(t, f.remuxes)
	assert.True(t, f.writer.Closed)
}

func TestProcessor_OpenFailure(t *testing.T) {
	f := newProcessorFixture(t)
	f.proc.Open = func(string, frame.Info) (frame.Writer, error) {
		return nil, errors.New("ffmpeg not found")
	}

	_, err := f.proc.Run(context.Background(), frametest.NewDecoder(100, 30), f.job)
	assert.ErrorIs(t, err, frame.ErrWriterFailure)

	exports, err := db.SelectExports(f.proc.DB, 10)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, db.StatusError, exports[0].Status)
	assert.Contains(t, exports[0].Error, "ffmpeg not found")
}

func TestProcessor_WithoutHistoryOrRemux(t *testing.T) {
	f := newProcessorFixture(t)
	f.proc.DB = nil
	f.proc.Remux = nil

	result, err := f.proc.Run(context.Background(), frametest.NewDecoder(100, 30), f.job)
	require.NoError(t, err)
	assert.Equal(t, 11, result.Frames)
	assert.Equal(t, f.job.Paths.Intermediate, result.Output)
}
