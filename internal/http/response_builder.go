// Package http provides HTTP server and handler implementations.
//
// This file implements the Builder Pattern for JSON API responses: a status,
// an optional user-facing notice, an optional error with per-field messages
// and a payload.

package http

import (
	"encoding/json"
	"net/http"
)

// NotificationType represents the type of notice to display.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// Notice is a message the page shows as a toast or alert.
type Notice struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

type responseBody struct {
	Notice *Notice           `json:"notice,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Data   any               `json:"data,omitempty"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       responseBody
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Notify attaches a notice.
func (b *JSONResponseBuilder) Notify(notifType NotificationType, message string) *JSONResponseBuilder {
	b.body.Notice = &Notice{Type: notifType, Message: message}
	return b
}

// Success is a convenience method for success notices.
func (b *JSONResponseBuilder) Success(message string) *JSONResponseBuilder {
	return b.Notify(NotificationSuccess, message)
}

// Error sets the error message and an error notice carrying it.
func (b *JSONResponseBuilder) Error(message string) *JSONResponseBuilder {
	b.body.Error = message
	return b.Notify(NotificationError, message)
}

// Fields attaches per-field validation messages.
func (b *JSONResponseBuilder) Fields(fields map[string]string) *JSONResponseBuilder {
	b.body.Fields = fields
	return b
}

// Data sets the payload.
func (b *JSONResponseBuilder) Data(v any) *JSONResponseBuilder {
	b.body.Data = v
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Error(message)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string, fields map[string]string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message).Fields(fields)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}
