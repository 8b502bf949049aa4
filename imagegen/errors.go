package imagegen

import (
	"errors"
	"fmt"
)

// ErrModelNotAllowed reports a model id outside the configured allow-list.
var ErrModelNotAllowed = errors.New("model is not in the configured allow-list")

// ErrPromptRequired reports an empty prompt after trimming.
var ErrPromptRequired = errors.New("prompt must not be empty")

// NetworkError wraps a transport-level failure, including timeouts and
// caller cancellation. The request may never have reached the backend.
type NetworkError struct {
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("image backend unreachable: %v", e.Err)
}

func (e NetworkError) Unwrap() error { return e.Err }

// BackendError reports a non-2xx answer from the generation backend, with
// the parsed error message when the body carried one.
type BackendError struct {
	Status  int
	Message string
}

func (e BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("image backend returned status %d", e.Status)
	}
	return fmt.Sprintf("image backend returned status %d: %s", e.Status, e.Message)
}

// DecodeError reports a 2xx response whose body could not be interpreted as
// an image in any supported shape.
type DecodeError struct {
	Reason string
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("could not decode image response: %s", e.Reason)
}
