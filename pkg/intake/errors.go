package intake

import "fmt"

// DeliveryError describes a failed payload delivery. The service's
// response is captured alongside the submitted payload and URL so that
// a failed request can be diagnosed and replayed.
type DeliveryError struct {
	// StatusCode is the numeric HTTP status, 0 when no response arrived
	StatusCode int

	// Status is the full HTTP status line, e.g. "500 Internal Server Error"
	Status string

	// Body is the response body returned by the service
	Body string

	// Payload is the request body that was submitted
	Payload string

	// URL is the full intake URL the request was sent to
	URL string

	// Err is the transport error, set when the request never completed
	Err error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("delivery failed with status %s: %s, submitted payload: %s, url: %s",
		e.Status, e.Body, e.Payload, e.URL)
}

// Unwrap returns the transport error, if any.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
