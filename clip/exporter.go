package clip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/framecut-cli/frame"
)

// Exporter writes a closed frame range to a Writer and records the wall-clock
// time of every written frame.
type Exporter struct {
	Stamper Stamper
	Logger  *zap.Logger
	// OnFrame, when set, is called after each frame is written.
	OnFrame func(written, source int)
}

// exportState is everything that changes between two steps of an export.
type exportState struct {
	cursor  int
	counter int
	stamps  *TimestampMap
	done    bool
}

// Export walks rng and writes each resolvable frame to w in order. The writer
// is always finalized before Export returns. On any error, including context
// cancellation, the partial map is discarded.
func (e *Exporter) Export(ctx context.Context, dec frame.Decoder, w frame.Writer, rng frame.Range, origin time.Time) (*TimestampMap, error) {
	log := e.logger().With(zap.Int("start", rng.Start), zap.Int("end", rng.End))
	st := exportState{cursor: rng.Start, stamps: &TimestampMap{}}

	var loopErr error
	for !st.done {
		if err := ctx.Err(); err != nil {
			loopErr = err
			break
		}
		st, loopErr = e.step(dec, w, rng, origin, st)
		if loopErr != nil {
			break
		}
	}

	closeErr := w.Close()
	if loopErr != nil {
		fields := []zap.Field{zap.Int("written", st.counter), zap.Error(loopErr)}
		if closeErr != nil {
			fields = append(fields, zap.NamedError("finalize_error", closeErr))
		}
		log.Warn("export aborted", fields...)
		return nil, loopErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w: finalize output: %w", frame.ErrWriterFailure, closeErr)
	}

	log.Info("export finished", zap.Int("written", st.counter), zap.Int("requested", rng.Len()))
	return st.stamps, nil
}

// step resolves, stamps and writes the frame at st.cursor.
func (e *Exporter) step(dec frame.Decoder, w frame.Writer, rng frame.Range, origin time.Time, st exportState) (exportState, error) {
	if st.cursor > rng.End {
		st.done = true
		return st, nil
	}

	res, err := frame.Resolve(dec, st.cursor, frame.Forward, rng.End)
	if errors.Is(err, frame.ErrFrameUnresolvable) {
		e.logger().Debug("no frame left in range", zap.Int("cursor", st.cursor))
		st.done = true
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if res.Index > rng.End {
		st.done = true
		return st, nil
	}
	if res.Index != st.cursor {
		e.logger().Debug("frame corrected", zap.Int("requested", st.cursor), zap.Int("actual", res.Index))
	}

	instant := origin.Add(res.Elapsed)
	st.stamps.add(Stamp{
		Source:  res.Index,
		Elapsed: res.Elapsed,
		Instant: instant,
		Text:    e.Stamper.Format(instant),
	})

	if err := w.WriteFrame(res.Payload); err != nil {
		return st, fmt.Errorf("%w: frame %d: %w", frame.ErrWriterFailure, res.Index, err)
	}

	st.counter++
	st.cursor = res.Index + 1
	if e.OnFrame != nil {
		e.OnFrame(st.counter, res.Index)
	}
	return st, nil
}

func (e *Exporter) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
