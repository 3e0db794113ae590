package catalog

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// UpstreamError indicates a catalog API failure, either a non-2xx
// response or a transport error (StatusCode 0).
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog request failed: %s", e.Message)
	}
	return fmt.Sprintf("catalog error %d: %s", e.StatusCode, e.Message)
}

// upstream converts an API client error into an *UpstreamError.
func upstream(err error) error {
	if err == nil {
		return nil
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return &UpstreamError{StatusCode: ge.Code, Message: ge.Message}
	}
	return &UpstreamError{Message: err.Error()}
}
