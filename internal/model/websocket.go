package model

// WebSocket message types
const (
	WSMessageTypeStatus   = "status"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSStatusMessage represents a job status transition
type WSStatusMessage struct {
	Type   string    `json:"type"`
	TaskID string    `json:"taskId"`
	Style  Style     `json:"style"`
	Status JobStatus `json:"status"`
}

// WSCompleteMessage represents job completion
type WSCompleteMessage struct {
	Type      string `json:"type"`
	TaskID    string `json:"taskId"`
	Style     Style  `json:"style"`
	ResultURL string `json:"resultUrl,omitempty"`
}

// WSErrorMessage represents a failed job
type WSErrorMessage struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Style  Style  `json:"style"`
	Error  string `json:"error"`
}
