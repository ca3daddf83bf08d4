package judged

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is returned when the judged API responds with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("judged: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// newAPIError extracts the message from an error body. The server uses
// {"message": ...} for auth/validation failures and {"error": ...} otherwise.
func newAPIError(status int, raw []byte) *APIError {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	msg := string(raw)
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			msg = body.Message
		} else if body.Err != "" {
			msg = body.Err
		}
	}
	return &APIError{StatusCode: status, Message: msg}
}
