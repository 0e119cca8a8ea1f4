package db

import "time"

// Export status values.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
	StatusCancelled  = "cancelled"
)

// Export represents a row in the exports table.
type Export struct {
	ID            string
	VideoPath     string
	StartFrame    int
	EndFrame      int
	OutputPath    string
	RecordPath    string
	Origin        string
	Status        string
	FramesWritten int
	OutputSize    int64
	Error         string
	CreatedAt     time.Time
	StartedAt     *time.Time
	FinishedAt    *time.Time
}
