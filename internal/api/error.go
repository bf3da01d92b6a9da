package api

import (
	"encoding/json"
	"fmt"
)

// HTTPError classifies a failed backend call. Status is 0 when the request
// never produced a response (connectivity, DNS); otherwise it is the non-2xx
// status code and Body holds the raw response body.
type HTTPError struct {
	Status int
	Body   string
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Detail extracts the backend's {detail} error message when present,
// falling back to the raw body. Login and signup surface this inline.
func (e *HTTPError) Detail() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return e.Body
}
