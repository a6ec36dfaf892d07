package core

import "fmt"

// ConfigError reports a construction-time parameter that cannot be used. It is
// returned before any device surface is allocated.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// ComputeError reports a failed device pass. Stage is the index inside a
// multi-pass schedule, or 0 for single-pass work.
type ComputeError struct {
	Pass  string
	Stage int
	Err   error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s pass %d failed: %v", e.Pass, e.Stage, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}
