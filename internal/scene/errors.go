package scene

import "strings"

// ValidationError reports one or more problems found while validating
// an object at registration time, mutation time, or a parameter
// setter. Multiple issues are concatenated into one multi-line
// message; it is never raised for a single issue silently dropping
// the rest.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Issues, "\n")
}

// SceneError reports one or more problems found while checking the
// scene's overall arrangement at capture time (missing camera/light,
// sphere count out of range).
type SceneError struct {
	Issues []string
}

func (e *SceneError) Error() string {
	return strings.Join(e.Issues, "\n")
}

// WorkerError wraps a failure from a concurrent staging worker,
// propagated synchronously to the caller of CaptureFrame.
type WorkerError struct {
	Category string
	Err      error
}

func (e *WorkerError) Error() string {
	return "staging " + e.Category + ": " + e.Err.Error()
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
