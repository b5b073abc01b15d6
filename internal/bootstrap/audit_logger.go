package bootstrap

import "context"

// AuditLog adalah entri audit level proses (start/stop), berbeda dengan
// activity log per-operasi di internal/audit.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
