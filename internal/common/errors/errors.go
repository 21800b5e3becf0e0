// Package errors provides the typed error taxonomy used across the dispatch pipeline.
package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError aggregates every offending field of a request. Fields holds
// envelope-level failures (title/channel/recipients/selectors); AttributeFields
// holds failures keyed by template attribute name, which API responses nest
// under a separate "attributes" object.
type ValidationError struct {
	Fields          map[string]string `json:"fields,omitempty"`
	AttributeFields map[string]string `json:"attributeFields,omitempty"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{
		Fields:          map[string]string{},
		AttributeFields: map[string]string{},
	}
}

// AddField records an envelope-level field error, keeping the first message per field.
func (e *ValidationError) AddField(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// AddAttribute records a failure for a declared template attribute.
func (e *ValidationError) AddAttribute(name, message string) {
	if _, ok := e.AttributeFields[name]; !ok {
		e.AttributeFields[name] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0 || len(e.AttributeFields) > 0
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields)+len(e.AttributeFields))
	for f := range e.Fields {
		names = append(names, f)
	}
	for f := range e.AttributeFields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NotFoundError marks an entity as absent or inaccessible to the calling
// project. Cross-tenant lookups produce the same error as true absence.
type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ChannelUnavailableError is returned when the requested channel has no
// template for the notification. It carries the channels that ARE configured
// so the caller can correct the request.
type ChannelUnavailableError struct {
	Requested string
	Available []string
}

func NewChannelUnavailableError(requested string, available []string) *ChannelUnavailableError {
	return &ChannelUnavailableError{Requested: requested, Available: available}
}

func (e *ChannelUnavailableError) Error() string {
	return fmt.Sprintf("channel %s not configured", e.Requested)
}

// Hint formats the caller-facing message, listing configured channels.
func (e *ChannelUnavailableError) Hint() string {
	if len(e.Available) == 0 {
		return "No channels are configured for this notification"
	}
	return fmt.Sprintf("Channel %q is not available for this notification. Available channels: %s",
		e.Requested, strings.Join(e.Available, ", "))
}

// TransportError wraps a mail-transport failure. It is recovered per-recipient
// into a FAILED delivery row rather than surfacing as an HTTP error.
type TransportError struct {
	Err error
}

func NewTransportError(err error) *TransportError {
	return &TransportError{Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s", e.Reason())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Reason returns the transport's own message, falling back to a generic one
// when the transport gave none.
func (e *TransportError) Reason() string {
	if e.Err == nil || e.Err.Error() == "" {
		return "Unknown email transport error"
	}
	return e.Err.Error()
}
