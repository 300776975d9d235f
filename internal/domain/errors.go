package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential  = errors.New("credential not configured")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUpstreamSubmission = errors.New("upstream submission failed")
	ErrUpstreamFailure    = errors.New("upstream prediction failed")
	ErrUpstreamTimeout    = errors.New("upstream prediction timed out")
	ErrNoImageReturned    = errors.New("image model did not return an image")
)

// UpstreamError carries the status and detail reported by an external job API.
type UpstreamError struct {
	Kind    error
	Service string
	Status  int
	Detail  string
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Detail != "":
		return fmt.Sprintf("%s: %v: %d - %s", e.Service, e.Kind, e.Status, e.Detail)
	case e.Status != 0:
		return fmt.Sprintf("%s: %v: %d", e.Service, e.Kind, e.Status)
	case e.Detail != "":
		return fmt.Sprintf("%s: %v: %s", e.Service, e.Kind, e.Detail)
	default:
		return fmt.Sprintf("%s: %v", e.Service, e.Kind)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}
