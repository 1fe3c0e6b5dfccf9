package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for replies outside the 2xx range.
type StatusError struct {
	Code     int
	Envelope Envelope
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Is makes a 401 StatusError match ErrUnauthorized.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// EnvelopeOf returns the decoded body carried by err, if any.
func EnvelopeOf(err error) (Envelope, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Envelope, true
	}
	return Envelope{}, false
}

// MessageFrom picks the first non-empty message of env, or def.
func MessageFrom(env Envelope, def string) string {
	for _, m := range []string{env.Error, env.ErrorDescription, env.ErrorTitle} {
		if m != "" {
			return m
		}
	}
	return def
}
