package frame

import "fmt"

// Correct probes linearly from the frame adjacent to requested, in direction
// dir, until the decoder delivers a frame at exactly the probed index.
//
// The caller is expected to have tried requested itself already. The probe
// never leaves [0, upperBound]; running out of range yields
// ErrFrameUnresolvable. Decoder errors are returned as-is (wrapped).
func Correct(dec Decoder, requested int, dir Direction, upperBound int) (Resolved, error) {
	step := dir.Step()
	for cursor := requested + step; cursor >= 0 && cursor <= upperBound; cursor += step {
		payload, ok, err := readAt(dec, cursor)
		if err != nil {
			return Resolved{}, err
		}
		if ok {
			return Resolved{Index: cursor, Payload: payload, Elapsed: dec.Elapsed()}, nil
		}
	}
	return Resolved{}, fmt.Errorf("%w: no frame %s of %d within [0, %d]", ErrFrameUnresolvable, dir, requested, upperBound)
}

// Resolve reads index exactly and falls back to Correct in direction dir.
func Resolve(dec Decoder, index int, dir Direction, upperBound int) (Resolved, error) {
	payload, ok, err := readAt(dec, index)
	if err != nil {
		return Resolved{}, err
	}
	if ok {
		return Resolved{Index: index, Payload: payload, Elapsed: dec.Elapsed()}, nil
	}
	return Correct(dec, index, dir, upperBound)
}

// readAt seeks to index and reads one frame. ok is true only when a frame was
// decoded and the decoder reports it sits at index.
func readAt(dec Decoder, index int) ([]byte, bool, error) {
	if err := dec.Seek(index); err != nil {
		return nil, false, fmt.Errorf("seek to frame %d: %w", index, err)
	}
	payload, ok, err := dec.Read()
	if err != nil {
		return nil, false, fmt.Errorf("read frame %d: %w", index, err)
	}
	if !ok || dec.Position() != index {
		return nil, false, nil
	}
	return payload, true, nil
}
