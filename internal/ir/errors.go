package ir

// UserError reports a problem with the pipeline itself: missing bounds
// estimates, an unsupported update definition, a missing parameter
// estimate. These are fatal and actionable, never retried.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }
