package domain

import "time"

// Broadcast records a single notify-all run.
type Broadcast struct {
	BroadcastID string    `json:"id" dynamodbav:"broadcast_id"`
	Message     string    `json:"message" dynamodbav:"message"`
	Total       int       `json:"total" dynamodbav:"total"`
	Sent        int       `json:"sent" dynamodbav:"sent"`
	Failed      int       `json:"failed" dynamodbav:"failed"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
}

// BroadcastEntry is the per-subscriber outcome of a broadcast.
type BroadcastEntry struct {
	Phone      string `json:"phone"`
	Success    bool   `json:"success"`
	MessageSID string `json:"messageSid,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BroadcastSummary aggregates a notify-all run. A partial failure never
// aborts the run; Failed counts subscribers whose send or record update
// did not go through.
type BroadcastSummary struct {
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Results []BroadcastEntry `json:"results"`
}

type BroadcastRequest struct {
	Message string `json:"message" validate:"required"`
}
