package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Sentinel errors for the server error signatures the console recognises.
var (
	ErrPriceNotPositive   = errors.New("price must be greater than 0")
	ErrDuplicateProductID = errors.New("a device with this product ID already exists")
)

// APIError is any backend failure that does not match a known signature.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// errorEnvelope is the standard error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	message := strings.TrimSpace(string(body))
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	return mapServerError(resp.StatusCode, message)
}

// mapServerError pattern-matches the known server signatures: the exact
// price-validation string, the duplicate product id prefix, and everything
// else as a generic failure.
func mapServerError(status int, message string) error {
	switch {
	case message == "[value must be greater than 0]":
		return ErrPriceNotPositive
	case strings.HasPrefix(message, "Product ID already exists"):
		return ErrDuplicateProductID
	default:
		return &APIError{Status: status, Message: message}
	}
}
