// Package poller implements the client-side polling loop for style
// jobs: bounded status fetches with a fixed interval.
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/tapedeck/api/internal/model"
)

// ErrProcessingTimeout is returned when the attempt bound is exhausted
// before the job reaches a terminal state. It is strictly a
// client-side condition: the server keeps processing the job.
var ErrProcessingTimeout = errors.New("processing timeout: poll attempts exhausted")

// StatusFetcher reads one job's status. *service.ProcessService
// satisfies it; an HTTP client wrapper would too.
type StatusFetcher interface {
	GetStatus(ctx context.Context, taskID, style string) (*model.ProcessStatusResponse, error)
}

// Poller polls one (taskId, style) job until it is terminal or the
// attempt bound is hit.
type Poller struct {
	fetcher     StatusFetcher
	maxAttempts int
	interval    time.Duration
}

func New(fetcher StatusFetcher, maxAttempts int, interval time.Duration) *Poller {
	return &Poller{
		fetcher:     fetcher,
		maxAttempts: maxAttempts,
		interval:    interval,
	}
}

// Wait performs at most maxAttempts status fetches, sleeping the
// configured interval between them. It returns the terminal status, or
// ErrProcessingTimeout after exactly maxAttempts non-terminal reads.
// Fetch errors (including not-found) abort immediately.
func (p *Poller) Wait(ctx context.Context, taskID, style string) (*model.ProcessStatusResponse, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.interval):
			}
		}

		status, err := p.fetcher.GetStatus(ctx, taskID, style)
		if err != nil {
			return nil, err
		}
		if status.Status.Terminal() {
			return status, nil
		}
	}
	return nil, ErrProcessingTimeout
}
