// Package client talks to the externally owned account REST API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see Client) with one method per remote
//     operation: Login, GetProfile, UpdateProfileImage, UpdateProfileViaProfile,
//     CountryList, CountryCode, ValidateMobileNumber, ValidateEmail, Register.
//  2. An HTTP implementation (see HTTPClient) that sends multipart form
//     fields or a JSON body, applies a fixed per-call timeout, tags every
//     request with an X-Request-ID, and decodes the loosely shaped replies into
//     an Envelope.
//
// # Error Handling
//
// Transport failures and timeouts are reported as ErrUnavailable. Non-2xx
// replies are returned as *StatusError carrying the decoded body; a 401 also
// matches ErrUnauthorized with errors.Is.
//
// The API reports outcomes through several optional flags (success,
// isSuccess, valid) and several optional message fields. Callers decide
// what counts as success; this package only decodes.
package client
