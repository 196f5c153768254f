package filelock

import (
	"github.com/filelockd/filelockd/internal/audit"
	"github.com/filelockd/filelockd/internal/identity"
)

// emitEvent is safe to call with a nil auditor.
func emitEvent(w *audit.Writer, event, target, sentinelPath string) {
	if w == nil {
		return
	}
	id := identity.Current()
	w.Emit(&audit.Event{
		Event:        event,
		Target:       target,
		SentinelPath: sentinelPath,
		Owner:        id.Owner,
		Host:         id.Host,
		PID:          id.PID,
		AgentID:      id.AgentID,
	})
}

func compromiseEventName(kind CompromiseKind) string {
	switch kind {
	case NotFound:
		return audit.EventCompromisedNotFound
	case NotMine:
		return audit.EventCompromisedNotMine
	case Threshold:
		return audit.EventCompromisedThreshold
	default:
		return audit.EventCompromisedNotFound
	}
}
