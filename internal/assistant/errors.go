package assistant

import "fmt"

// AuthError reports a failed identity exchange. It is a hard failure: the
// caller must not retry and must surface a server-side error. Status is the
// upstream HTTP status (0 for transport-level failures).
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assistant auth failed: %v", e.Err)
	}
	return fmt.Sprintf("assistant auth failed: status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UpstreamError reports a non-200 response from the completion endpoint.
// The orchestrator converts it to a diagnostic reply string; the request as a
// whole still succeeds.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("assistant completion failed: status %d", e.Status)
}
