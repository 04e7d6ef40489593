package pipeline

import "fmt"

// AssetReadError indicates a local image reference could not be read. It is
// fatal to the whole generation request.
type AssetReadError struct {
	Ref string
	Err error
}

func (e *AssetReadError) Error() string {
	return fmt.Sprintf("pipeline: read asset %q: %v", e.Ref, e.Err)
}

func (e *AssetReadError) Unwrap() error { return e.Err }

// SubmitError indicates an external service rejected a submission. The
// upstream error body is preserved in Err.
type SubmitError struct {
	Kind JobKind
	Err  error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("pipeline: %s submit: %v", e.Kind, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// TimeoutError indicates polling exhausted its attempt budget without the job
// reaching a terminal state. It is treated like a failure, never retried.
type TimeoutError struct {
	Kind     JobKind
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("pipeline: %s job still running after %d poll attempts", e.Kind, e.Attempts)
}

// UpstreamError carries a failure message reported by an external service in a
// poll response.
type UpstreamError struct {
	Kind    JobKind
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("pipeline: %s failed: %s", e.Kind, e.Message)
}
