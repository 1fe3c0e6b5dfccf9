package services

import (
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
)

// Outcome is the result of a remote field check.
type Outcome int

const (
	// Indeterminate covers transport failures, timeouts, unexpected shapes
	// and replies without a recognised marker.
	Indeterminate Outcome = iota
	Valid
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "indeterminate"
	}
}

// Policy decides whether an outcome lets registration continue.
type Policy func(Outcome) bool

// FailOpen blocks only on an explicit invalid marker. An unavailable or
// ambiguous validation service never blocks registration. This accepts
// unvalidated data whenever the service misbehaves and needs sign-off from
// the product owner before it is changed.
func FailOpen(o Outcome) bool { return o != Invalid }

// FailClosed allows only explicit valid answers.
func FailClosed(o Outcome) bool { return o == Valid }

const (
	mobileInvalidErrNo = 2
	emailInvalidErrNo  = 6
	invalidDataTitle   = "Invalid Data"
)

type markers struct {
	errNo       client.Code
	description string
	// anyValidFlag also accepts success=true or valid=true as a valid answer.
	anyValidFlag bool
}

var (
	mobileMarkers = markers{errNo: mobileInvalidErrNo, description: "Invalid mobile number"}
	emailMarkers  = markers{errNo: emailInvalidErrNo, description: "valid email", anyValidFlag: true}
)

func (m markers) match(env client.Envelope) bool {
	return env.ErrorNo == m.errNo ||
		env.ErrorTitle == invalidDataTitle ||
		strings.Contains(env.ErrorDescription, m.description)
}

// classify maps a remote check reply (or its error) to an Outcome. Invalid
// requires a marker; the same markers are honoured in 2xx bodies and in
// error-status bodies.
func classify(resp *client.Response, err error, m markers) Outcome {
	if err != nil {
		if env, ok := client.EnvelopeOf(err); ok && m.match(env) {
			return Invalid
		}
		return Indeterminate
	}

	env := resp.Envelope
	switch {
	case isTrue(env.IsSuccess):
		return Valid
	case m.match(env):
		return Invalid
	case m.anyValidFlag && (isTrue(env.Success) || isTrue(env.Valid)):
		return Valid
	default:
		return Indeterminate
	}
}

func classifyMobile(resp *client.Response, err error) Outcome {
	return classify(resp, err, mobileMarkers)
}

func classifyEmail(resp *client.Response, err error) Outcome {
	return classify(resp, err, emailMarkers)
}
