// Package procinfo looks up the start time of a process. Its one consumer
// is agent-id generation for the audit trail: hashing a PID together with
// its start time yields an identifier that survives nothing but the
// process itself, so two runs that happen to reuse a PID still correlate
// as distinct holders in the audit log. Nothing here feeds lock
// semantics.
package procinfo
