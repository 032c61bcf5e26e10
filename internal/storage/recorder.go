package storage

import (
	"context"
	"sync"
)

// DefaultBatchSize is how many frames are buffered between writes.
const DefaultBatchSize = 120

// Recorder buffers frame records of one run and writes them in batches
// so the frame loop does not wait on the disk every refresh.
type Recorder struct {
	store *Store
	runID int64
	batch int

	mu      sync.Mutex
	pending []FrameRecord
	lastTop string
}

// NewRecorder starts a new run in store.
func NewRecorder(ctx context.Context, store *Store, region, level string, batch int) (*Recorder, error) {
	runID, err := store.StartRun(ctx, region, level)
	if err != nil {
		return nil, err
	}
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Recorder{
		store:   store,
		runID:   runID,
		batch:   batch,
		pending: make([]FrameRecord, 0, batch),
	}, nil
}

// RunID returns the ID of the run being recorded.
func (r *Recorder) RunID() int64 {
	return r.runID
}

// RecordFrame buffers one frame and flushes when the batch is full.
func (r *Recorder) RecordFrame(ctx context.Context, f FrameRecord) error {
	r.mu.Lock()
	r.pending = append(r.pending, f)
	topoChanged := f.Topology != r.lastTop
	r.lastTop = f.Topology
	full := len(r.pending) >= r.batch
	r.mu.Unlock()

	if topoChanged {
		if err := r.store.SetRunTopology(ctx, r.runID, f.Topology); err != nil {
			return err
		}
	}
	if full {
		return r.Flush(ctx)
	}
	return nil
}

// Flush writes all buffered frames.
func (r *Recorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	frames := r.pending
	r.pending = make([]FrameRecord, 0, r.batch)
	r.mu.Unlock()

	return r.store.SaveFrames(ctx, r.runID, frames)
}
