package model

import "time"

// ProcessSubmitUpload is the validated view of a multipart upload. The
// content-type allowlist matches what the codec package can decode.
type ProcessSubmitUpload struct {
	Filename    string `validate:"required"`
	ContentType string `validate:"required,oneof=audio/wav audio/x-wav audio/wave audio/mpeg audio/mp3 audio/ogg application/ogg"`
	Size        int64  `validate:"required,gt=0"`
}

// JobQuery identifies one (taskId, style) job from a request path.
type JobQuery struct {
	TaskID string `validate:"required"`
	Style  string `validate:"required"`
}

// ProcessSubmitResponse is returned when an upload is accepted
type ProcessSubmitResponse struct {
	TaskID    string    `json:"taskId"`
	Styles    []Style   `json:"styles"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProcessStatusResponse is the per-style status view clients poll
type ProcessStatusResponse struct {
	TaskID      string     `json:"taskId"`
	Style       Style      `json:"style"`
	Status      JobStatus  `json:"status"`
	ResultURL   string     `json:"resultUrl,omitempty"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// StyleInfo describes one known style and its preset parameters
type StyleInfo struct {
	Name              Style   `json:"name"`
	TimeStretchFactor float64 `json:"timeStretchFactor"`
	LofiAmount        float64 `json:"lofiAmount"`
	SwingAmount       float64 `json:"swingAmount"`
}

// StylesResponse lists the known styles
type StylesResponse struct {
	Styles []StyleInfo `json:"styles"`
}
