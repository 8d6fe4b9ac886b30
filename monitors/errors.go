package monitors

import "fmt"

// A ConfigError reports an invalid monitor construction: a missing source, a
// zero-unit population, or a schedule that does not align with the source's
// clock. A constructor that returns a ConfigError returns no monitor.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "monitor configuration: " + e.Reason
}

// An ExpiredRefError reports that a non-owning source reference was accessed
// after the source's lifetime ended. It signals a lifecycle bug in the
// composing system and is not recoverable by the monitor.
type ExpiredRefError struct {
	Name string
}

func (e *ExpiredRefError) Error() string {
	return fmt.Sprintf("spike source %q is no longer alive", e.Name)
}

// A BackendError wraps a failure surfaced by the device while executing a
// monitor's per-tick operation. It is propagated unchanged to the engine,
// which stops the run; data recorded before the failure stays readable.
type BackendError struct {
	Monitor string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("monitor %q backend: %v", e.Monitor, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
