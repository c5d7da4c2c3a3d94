package events

import "time"

const GatePassDecidedTopic = "campus.gatepass.decision.v1"

// Actions recorded on the decision stream.
const (
	ActionCreate  = "CREATE"
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
	ActionVerify  = "VERIFY"
	ActionCheckin = "CHECKIN"
)

type GatePassDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	GatePassID string    `json:"gatepass_id"`
	PassNumber string    `json:"pass_number"`
	Action     string    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Comment    string    `json:"comment,omitempty"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
