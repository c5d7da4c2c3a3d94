package bootstrap

import "context"

type AuditLog struct {
	Action  string         `json:"action"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// AuditLogger mencatat event operasional penting (startup, shutdown).
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
