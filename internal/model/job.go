package model

import (
	"fmt"
	"time"
)

// Job represents one (taskId, style) unit of background work
type Job struct {
	TaskID      string     `json:"taskId"`
	Style       Style      `json:"style"`
	Status      JobStatus  `json:"status"`
	Error       *string    `json:"error,omitempty"`
	ResultKey   string     `json:"resultKey,omitempty"` // storage key or redis result key
	ResultURL   string     `json:"resultUrl,omitempty"` // set when uploaded to object storage
	SampleRate  int        `json:"sampleRate"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Key returns the composite job key, unique across the system.
func (j *Job) Key() string {
	return JobKey(j.TaskID, j.Style)
}

// JobKey builds the composite key for a (taskId, style) pair.
func JobKey(taskID string, style Style) string {
	return fmt.Sprintf("%s:%s", taskID, style)
}

// StyleJobPayload is the asynq task payload for one style job.
type StyleJobPayload struct {
	TaskID string `json:"taskId"`
	Style  Style  `json:"style"`
}
