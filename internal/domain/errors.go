package domain

import "fmt"

// NetworkError means the request never reached a server. It is retried at
// most once by the HTTP client before being surfaced.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError means the server was reachable but responded with a failure
// status. 5xx responses are retried once; 4xx are surfaced immediately.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
}

// Retryable reports whether the failure is worth one more attempt.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode >= 500
}

// ProtocolError means a live-feed message could not be parsed. The message is
// dropped and the connection stays up.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %v", e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ConnectionError means the live feed lost its connection and exhausted the
// automatic reconnect budget.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
