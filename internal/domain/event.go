package domain

import "net/http"

// TriggerEvent is a snapshot of a completed request handed to the dispatcher.
type TriggerEvent struct {
	Method      string
	StatusCode  int
	HasValidURI bool
	URI         string
}

// IsPut reports whether the event came from a PUT request.
func (e TriggerEvent) IsPut() bool {
	return e.Method == http.MethodPut
}

// StatusQualifies reports whether a final status warrants a notification.
// The delta is taken unsigned, so only 200 and 201 pass and every status
// below 200 wraps around and is rejected as well.
func StatusQualifies(statusCode int) bool {
	return uint(statusCode-http.StatusOK) <= 1
}
