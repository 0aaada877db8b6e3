package exporter

import "fmt"

// WriteError reports a fatal filesystem problem while producing
// output. It is surfaced, not retried; the run aborts after whatever
// was already flushed.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
