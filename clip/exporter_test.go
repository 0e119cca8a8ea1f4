package clip

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/framecut-cli/frame"
	"github.com/user/framecut-cli/frame/frametest"
)

var testOrigin = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func exportAll(t *testing.T, dec frame.Decoder, rng frame.Range) (*TimestampMap, *frametest.Writer) {
	t.Helper()
	w := &frametest.Writer{}
	e := &Exporter{}
	stamps, err := e.Export(context.Background(), dec, w, rng, testOrigin)
	require.NoError(t, err)
	return stamps, w
}

func TestExport_CleanSourceIsDense(t *testing.T) {
	ranges := []frame.Range{{Start: 0, End: 1}, {Start: 10, End: 20}, {Start: 0, End: 99}, {Start: 97, End: 99}}

	for _, rng := range ranges {
		stamps, w := exportAll(t, frametest.NewDecoder(100, 30), rng)

		assert.Len(t, w.Frames, rng.End-rng.Start+1)
		assert.Equal(t, rng.End-rng.Start+1, stamps.Len())
		assert.True(t, w.Closed)

		want := make([]int, 0, rng.Len())
		for i := rng.Start; i <= rng.End; i++ {
			want = append(want, i)
		}
		assert.Equal(t, want, w.Indices())
	}
}

func TestExport_DroppedFrameScenario(t *testing.T) {
	dec := frametest.NewDecoder(100, 30).Drop(15)

	stamps, w := exportAll(t, dec, frame.Range{Start: 10, End: 20})

	assert.Equal(t, []int{10, 11, 12, 13, 14, 16, 17, 18, 19, 20}, w.Indices())
	require.Equal(t, 10, stamps.Len())

	raw, err := stamps.MarshalJSON()
	require.NoError(t, err)
	for n := 0; n < 10; n++ {
		assert.Contains(t, string(raw), `"`+Key(n)+`"`)
	}
	assert.NotContains(t, string(raw), `"Frame10"`)

	// Frame5 is source frame 16: its wall clock comes from the source, not the output counter.
	assert.Equal(t, 16, stamps.At(5).Source)
	assert.Equal(t, testOrigin.Add(frametest.FrameTime(16, 30)), stamps.At(5).Instant)
}

func TestExport_UnresolvableRangeTerminates(t *testing.T) {
	dec := frametest.NewDecoder(100, 30).Drop(50, 51, 52, 53, 54, 55)

	stamps, w := exportAll(t, dec, frame.Range{Start: 50, End: 55})

	assert.Equal(t, 0, stamps.Len())
	assert.Empty(t, w.Frames)
	assert.True(t, w.Closed, "writer must be finalized even when nothing was written")
}

func TestExport_RangePastEndOfSource(t *testing.T) {
	stamps, w := exportAll(t, frametest.NewDecoder(100, 30), frame.Range{Start: 95, End: 120})

	assert.Equal(t, 5, stamps.Len())
	assert.Equal(t, []int{95, 96, 97, 98, 99}, w.Indices())
}

func TestExport_DegenerateRange(t *testing.T) {
	stamps, w := exportAll(t, frametest.NewDecoder(100, 30), frame.Range{Start: 7, End: 7})
	assert.Equal(t, 1, stamps.Len())
	assert.Equal(t, []int{7}, w.Indices())

	stamps, w = exportAll(t, frametest.NewDecoder(100, 30).Drop(7), frame.Range{Start: 7, End: 7})
	assert.Equal(t, 0, stamps.Len())
	assert.Empty(t, w.Frames)
}

func TestExport_NeverEmitsBeyondEnd(t *testing.T) {
	dec := frametest.NewDecoder(100, 30).Drop(20)
	// the frame after the last requested one exists but must not be written
	stamps, w := exportAll(t, dec, frame.Range{Start: 18, End: 20})

	assert.Equal(t, []int{18, 19}, w.Indices())
	assert.Equal(t, 2, stamps.Len())
}

func TestExport_TimestampsNonDecreasing(t *testing.T) {
	dec := frametest.NewDecoder(300, 29.97).Drop(3, 40, 41, 100)

	stamps, _ := exportAll(t, dec, frame.Range{Start: 0, End: 299})

	require.Greater(t, stamps.Len(), 1)
	for n := 1; n < stamps.Len(); n++ {
		prev, cur := stamps.At(n-1), stamps.At(n)
		assert.False(t, cur.Instant.Before(prev.Instant), "Frame%d before Frame%d", n, n-1)
		assert.GreaterOrEqual(t, cur.Text, prev.Text)
	}
}

func TestExport_Idempotent(t *testing.T) {
	rng := frame.Range{Start: 5, End: 60}
	newDec := func() *frametest.Decoder { return frametest.NewDecoder(100, 25).Drop(9, 30, 31) }

	stamps1, w1 := exportAll(t, newDec(), rng)
	stamps2, w2 := exportAll(t, newDec(), rng)

	assert.Equal(t, w1.Frames, w2.Frames)
	raw1, err := stamps1.MarshalJSON()
	require.NoError(t, err)
	raw2, err := stamps2.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, raw1, raw2)
}

func TestExport_CancelDiscardsMapAndClosesWriter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &frametest.Writer{}
	e := &Exporter{
		OnFrame: func(written, _ int) {
			if written == 3 {
				cancel()
			}
		},
	}

	stamps, err := e.Export(ctx, frametest.NewDecoder(100, 30), w, frame.Range{Start: 0, End: 50}, testOrigin)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, stamps)
	assert.Len(t, w.Frames, 3)
	assert.True(t, w.Closed)
}

func TestExport_WriteFailure(t *testing.T) {
	w := &frametest.Writer{FailAfter: 2}
	e := &Exporter{}

	stamps, err := e.Export(context.Background(), frametest.NewDecoder(100, 30), w, frame.Range{Start: 0, End: 10}, testOrigin)

	assert.ErrorIs(t, err, frame.ErrWriterFailure)
	assert.ErrorIs(t, err, frametest.ErrWrite)
	assert.Nil(t, stamps)
	assert.True(t, w.Closed)
}

func TestExport_FinalizeFailure(t *testing.T) {
	closeErr := errors.New("moov atom not written")
	w := &frametest.Writer{CloseErr: closeErr}
	e := &Exporter{}

	stamps, err := e.Export(context.Background(), frametest.NewDecoder(100, 30), w, frame.Range{Start: 0, End: 3}, testOrigin)

	assert.ErrorIs(t, err, frame.ErrWriterFailure)
	assert.ErrorIs(t, err, closeErr)
	assert.Nil(t, stamps)
}

func TestExport_AbortLogsFinalizeFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	closeErr := errors.New("moov atom not written")
	w := &frametest.Writer{FailAfter: 1, CloseErr: closeErr}
	e := &Exporter{Logger: zap.New(core)}

	_, err := e.Export(context.Background(), frametest.NewDecoder(100, 30), w, frame.Range{Start: 0, End: 5}, testOrigin)
	require.ErrorIs(t, err, frametest.ErrWrite)

	entries := logs.FilterMessage("export aborted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, closeErr.Error(), fields["finalize_error"])
	assert.Equal(t, int64(1), fields["written"])
}

func TestExport_DecoderErrorIsFatal(t *testing.T) {
	boom := errors.New("unsupported codec")
	dec := frametest.NewDecoder(100, 30)
	dec.SeekErr = boom
	w := &frametest.Writer{}
	e := &Exporter{}

	_, err := e.Export(context.Background(), dec, w, frame.Range{Start: 0, End: 3}, testOrigin)

	assert.ErrorIs(t, err, boom)
	assert.True(t, w.Closed)
}

func TestExporterStep_AdvancesPastCorrectedFrame(t *testing.T) {
	e := &Exporter{}
	dec := frametest.NewDecoder(100, 30).Drop(4)
	w := &frametest.Writer{}
	rng := frame.Range{Start: 4, End: 10}

	st, err := e.step(dec, w, rng, testOrigin, exportState{cursor: 4, stamps: &TimestampMap{}})
	require.NoError(t, err)

	assert.False(t, st.done)
	assert.Equal(t, 6, st.cursor)
	assert.Equal(t, 1, st.counter)
	assert.Equal(t, 5, st.stamps.At(0).Source)
}
