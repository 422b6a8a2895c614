// Package store persists job records, uploaded source bytes and
// encoded results, keyed by (taskId, style). The Redis implementation
// backs the server; the in-memory one backs tests.
package store

import (
	"context"
	"errors"

	"github.com/tapedeck/api/internal/model"
)

var ErrNotFound = errors.New("not found")

// JobStore is the orchestrator's persistence boundary. All entries
// expire after the configured retention window.
type JobStore interface {
	// SaveJob upserts one job record.
	SaveJob(ctx context.Context, job *model.Job) error
	// GetJob returns ErrNotFound for an unknown (taskId, style) key.
	GetJob(ctx context.Context, taskID string, style model.Style) (*model.Job, error)

	// SaveSource keeps the raw upload bytes so a worker can re-decode
	// after a restart loses the in-process buffer cache.
	SaveSource(ctx context.Context, taskID string, data []byte) error
	GetSource(ctx context.Context, taskID string) ([]byte, error)

	// SaveResult stores one style's encoded output bytes.
	SaveResult(ctx context.Context, taskID string, style model.Style, data []byte) error
	GetResult(ctx context.Context, taskID string, style model.Style) ([]byte, error)
}
