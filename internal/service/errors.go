package service

import "errors"

var (
	// ErrDecode wraps decode failures of the uploaded clip. Raised
	// before any job is created, so it fails the whole task.
	ErrDecode = errors.New("could not decode audio")

	// ErrNotFound covers unknown task IDs and unknown style names.
	ErrNotFound = errors.New("job not found")

	// ErrNotReady means the job exists but has not reached a terminal
	// state, so no result bytes can be served yet.
	ErrNotReady = errors.New("job not completed")

	// ErrJobFailed means the job reached the failed state.
	ErrJobFailed = errors.New("job failed")
)
