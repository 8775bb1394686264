package domain

import "fmt"

// CorruptArchiveError marks an archive whose binary contents could not be
// read or parsed. Fatal: a partial archive makes the audit unsound.
type CorruptArchiveError struct {
	Path string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive %s: %v", e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error { return e.Err }

// ToolCrashedError marks an abnormal termination of the isolated collision
// worker: non-zero exit without a parsable payload, or an unparsable payload.
// An infrastructure failure, never an audit finding.
type ToolCrashedError struct {
	Detail string
	Err    error
}

func (e *ToolCrashedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("collision worker crashed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("collision worker crashed: %s", e.Detail)
}

func (e *ToolCrashedError) Unwrap() error { return e.Err }
