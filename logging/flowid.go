package logging

import "github.com/google/uuid"

// NewFlowID generates a new flow identifier used to correlate one
// request's access log entry with its proxied upstream call.
func NewFlowID() string {
	return uuid.NewString()
}
