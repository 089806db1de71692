package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"notes-auth/internal/domain"
)

// errorBody is the backend's error envelope. Which field carries the
// human-readable part varies by endpoint.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// classify maps a non-2xx response onto the domain error taxonomy,
// preserving the backend's human-readable message when one is present.
func classify(resp *http.Response) error {
	msg := errorMessage(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", domain.ErrServerError, msg)
	default:
		return fmt.Errorf("%w: %s", domain.ErrRequestError, msg)
	}
}

func errorMessage(resp *http.Response) string {
	fallback := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fallback
	}

	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return fallback
	}

	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	case body.Details != "":
		return body.Details
	default:
		return fallback
	}
}
