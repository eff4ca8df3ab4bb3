package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FlightInPastCode is the airline error code returned when every flight on a
// reservation has already departed.
const FlightInPastCode = 400520414

// RequestError is returned when a request to the airline API fails. Code holds
// the structured error code from the response body when one was present.
type RequestError struct {
	StatusCode int
	Message    string
	Code       int
}

func (e *RequestError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("airline request failed with status %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("airline request failed with status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the shape of the airline's JSON error responses.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MakeRequest performs an HTTP request against the airline API and decodes the
// JSON response into out. Non-2xx responses are returned as *RequestError with
// the body's error code attached when it can be decoded.
func MakeRequest(ctx context.Context, client *http.Client, method, url string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errBody errorBody
		json.NewDecoder(resp.Body).Decode(&errBody)
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    errBody.Message,
			Code:       errBody.Code,
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
