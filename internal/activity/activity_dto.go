package activity

type ActivityResponse struct {
	ID         string `json:"id"`
	GatePassID string `json:"gatepass_id"`
	PassNumber string `json:"pass_number"`
	Action     string `json:"action"`
	ActorID    string `json:"actor_id,omitempty"`
	ActorRole  string `json:"actor_role,omitempty"`
	Comment    string `json:"comment,omitempty"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	OccurredAt string `json:"occurred_at"`
}
