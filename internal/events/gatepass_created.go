package events

import "time"

const GatePassCreatedTopic = "campus.gatepass.lifecycle.v1"

type GatePassCreatedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	GatePassID    string    `json:"gatepass_id"`
	PassNumber    string    `json:"pass_number"`
	RequesterID   string    `json:"requester_id"`
	RequesterKind string    `json:"requester_kind"`
	DepartmentID  string    `json:"department_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
