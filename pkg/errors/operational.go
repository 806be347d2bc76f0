package errors

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// OperationalError carries the context of a failed layout operation.
//
// It records which user's layout and which widget were involved so a
// failure surfaced by the CLI or the store can be traced back to the
// customization record it came from.
type OperationalError struct {
	Operation  string                 // What operation was being performed
	UserID     string                 // Whose layout
	WidgetID   string                 // Which widget (if applicable)
	Timestamp  time.Time              // When error occurred
	Attributes map[string]interface{} // Additional context (optional)
	Cause      error                  // Underlying error
}

// NewOperationalError creates an OperationalError wrapping an error.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	if err != nil {
//	    return NewOperationalError("moving widget", userID, widgetID, err)
//	}
func NewOperationalError(operation, userID, widgetID string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation: operation,
		UserID:    userID,
		WidgetID:  widgetID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewOperationalErrorWithAttrs creates an OperationalError with additional attributes.
//
// Returns nil if cause is nil (no error to wrap).
func NewOperationalErrorWithAttrs(operation, userID, widgetID string, cause error, attrs map[string]interface{}) *OperationalError {
	err := NewOperationalError(operation, userID, widgetID, cause)
	if err == nil {
		return nil
	}
	err.Attributes = attrs
	return err
}

// Error implements the error interface.
//
// Format: "operation: user={id} widget={id}: {cause}"
// If widget ID is empty, it's omitted from the message.
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}

	if e.WidgetID != "" {
		return fmt.Sprintf("%s: user=%s widget=%s: %v", e.Operation, e.UserID, e.WidgetID, e.Cause)
	}
	return fmt.Sprintf("%s: user=%s: %v", e.Operation, e.UserID, e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Fields returns the error context as zap fields, attributes sorted by key.
func (e *OperationalError) Fields() []zap.Field {
	if e == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("operation", e.Operation),
		zap.String("user_id", e.UserID),
		zap.Time("at", e.Timestamp),
		zap.Error(e.Cause),
	}
	if e.WidgetID != "" {
		fields = append(fields, zap.String("widget_id", e.WidgetID))
	}

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, e.Attributes[k]))
	}
	return fields
}
