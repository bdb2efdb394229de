// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"errors"
	"fmt"
	"net/http"
)

// Error ids reported to API consumers.
const (
	ErrorIDRequestFailed         = "publication:pure-request-failed"
	ErrorIDInvalidResponseFormat = "publication:invalid-response-format"
)

var (
	// ErrInvalidArgument indicates nonsensical caller input, detected before
	// any request is sent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstream indicates the Pure API could not be reached or answered
	// with an error status.
	ErrUpstream = errors.New("Pure API request failed")

	// ErrMalformedResponse indicates Pure answered with a body that is not
	// the expected JSON object.
	ErrMalformedResponse = errors.New("Pure API returned invalid JSON structure")
)

// UpstreamError carries the upstream status and message of a failed Pure
// request. StatusCode is 0 for network failures.
type UpstreamError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: upstream HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrUpstream) hold for every UpstreamError.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrorID returns the consumer-facing error id.
func (e *UpstreamError) ErrorID() string { return ErrorIDRequestFailed }

// HTTPStatus maps an engine error to the status a REST layer should answer
// with: 400 for invalid arguments, 502 for upstream failures, 500 for
// malformed responses and anything else.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
