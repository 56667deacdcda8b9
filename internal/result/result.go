// Package result implements the structured outcome type used by every
// hypr-sessions operation (spec.md §4.3). It is the sole channel through
// which success, warnings, and errors are surfaced — no exception-like
// control flow is used for expected conditions such as NotFound.
package result

import (
	"encoding/json"
	"fmt"
)

// Status enumerates the severity of a single message.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Message is one entry in a Result's ordered message log.
type Message struct {
	Status  Status  `json:"status"`
	Message string  `json:"message"`
	Context *string `json:"context"`
}

// Summary counts messages by severity.
type Summary struct {
	SuccessCount int `json:"success_count"`
	WarningCount int `json:"warning_count"`
	ErrorCount   int `json:"error_count"`
}

// Result is the structured outcome of a hypr-sessions operation. Its JSON
// shape (key order, field names) is part of the external contract in
// spec.md §6 and must not change.
type Result struct {
	Success   bool                   `json:"success"`
	Operation string                 `json:"operation"`
	Data      map[string]interface{} `json:"data"`
	Messages  []Message              `json:"messages"`
	Sum       Summary                `json:"summary"`
}

// New starts a Result for the named operation. Success defaults to true
// until an error message is added.
func New(operation string) *Result {
	return &Result{
		Success:   true,
		Operation: operation,
		Data:      nil,
		Messages:  []Message{},
	}
}

// Successf records a success message.
func (r *Result) Successf(format string, args ...interface{}) *Result {
	return r.add(StatusSuccess, fmt.Sprintf(format, args...), nil)
}

// Warnf records a warning message. Warnings never change Success.
func (r *Result) Warnf(format string, args ...interface{}) *Result {
	return r.add(StatusWarning, fmt.Sprintf(format, args...), nil)
}

// Errorf records an error message and sets Success to false.
func (r *Result) Errorf(format string, args ...interface{}) *Result {
	return r.add(StatusError, fmt.Sprintf(format, args...), nil)
}

// WithContext attaches a context string to the most recently added message.
func (r *Result) WithContext(context string) *Result {
	if n := len(r.Messages); n > 0 {
		r.Messages[n-1].Context = &context
	}
	return r
}

// SetData assigns the optional data payload.
func (r *Result) SetData(data map[string]interface{}) *Result {
	r.Data = data
	return r
}

func (r *Result) add(status Status, message string, context *string) *Result {
	r.Messages = append(r.Messages, Message{Status: status, Message: message, Context: context})
	switch status {
	case StatusSuccess:
		r.Sum.SuccessCount++
	case StatusWarning:
		r.Sum.WarningCount++
	case StatusError:
		r.Sum.ErrorCount++
		r.Success = false
	}
	return r
}

// JSON renders the Result as pretty-printed JSON with stable key order.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Summarize produces a concise human-readable line for non-JSON output.
func (r *Result) Summarize() string {
	status := "ok"
	if !r.Success {
		status = "failed"
	}
	return fmt.Sprintf("%s: %s (%d success, %d warning, %d error)",
		r.Operation, status, r.Sum.SuccessCount, r.Sum.WarningCount, r.Sum.ErrorCount)
}
