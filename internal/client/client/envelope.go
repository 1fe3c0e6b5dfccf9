package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Code is an error number that the API sends either as a JSON number or as
// a quoted string.
type Code int

func (c *Code) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		// unknown codes are ignored rather than failing the whole reply
		*c = 0
		return nil
	}
	*c = Code(n)
	return nil
}

// ProfilePayload is the profile document, either nested under "profile" or
// inlined at the top level of the reply.
type ProfilePayload struct {
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Email        string `json:"email,omitempty"`
	Country      string `json:"country,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Envelope is the union of every field the API is known to return.
type Envelope struct {
	Success   *bool `json:"success,omitempty"`
	IsSuccess *bool `json:"isSuccess,omitempty"`
	Valid     *bool `json:"valid,omitempty"`

	AccessToken string `json:"accessToken,omitempty"`
	Token       string `json:"token,omitempty"`

	Error            string `json:"error,omitempty"`
	ErrorNo          Code   `json:"errorNo,omitempty"`
	ErrorTitle       string `json:"errorTitle,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`

	CountryList []CountryItem `json:"countryList,omitempty"`
	IDDCode     string        `json:"iddCode,omitempty"`
	ImagePath   string        `json:"imagePath,omitempty"`

	Profile *ProfilePayload `json:"profile,omitempty"`
	ProfilePayload
}

type CountryItem struct {
	Country string `json:"country"`
}

// Succeeded reports whether either success flag is explicitly true.
func (e Envelope) Succeeded() bool {
	return isTrue(e.Success) || isTrue(e.IsSuccess)
}

// ExplicitlyFailed reports an explicit isSuccess=false or success=false.
func (e Envelope) ExplicitlyFailed() bool {
	return isFalse(e.Success) || isFalse(e.IsSuccess)
}

// SessionToken returns accessToken, falling back to token.
func (e Envelope) SessionToken() string {
	if e.AccessToken != "" {
		return e.AccessToken
	}
	return e.Token
}

// ProfileDocument returns the nested profile if present, else the inlined one.
func (e Envelope) ProfileDocument() ProfilePayload {
	if e.Profile != nil {
		return *e.Profile
	}
	return e.ProfilePayload
}

func isTrue(b *bool) bool  { return b != nil && *b }
func isFalse(b *bool) bool { return b != nil && !*b }

// decodeEnvelope never fails: an unreadable body yields an empty envelope
// and ok=false. Field values of an unexpected JSON type are coerced where
// the meaning is clear (see lenient) and dropped otherwise, so one odd field
// never discards the rest of the reply.
func decodeEnvelope(body []byte) (env Envelope, ok bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Envelope{}, false
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Envelope{}, false
	}

	normalized, err := json.Marshal(lenientObject(raw))
	if err != nil {
		return Envelope{}, false
	}
	if err := json.Unmarshal(normalized, &env); err != nil {
		// json fills every other field before reporting a type error
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return Envelope{}, false
		}
	}
	return env, true
}

var flagKeys = map[string]bool{"success": true, "issuccess": true, "valid": true}

func lenientObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		if nv, keep := lenient(k, v); keep {
			out[k] = nv
		}
	}
	return out
}

// lenient coerces one field value to the JSON type Envelope expects for key:
// flags become booleans, the country list becomes a list of objects, error
// numbers are left to Code, and every other scalar becomes a string.
func lenient(key string, v any) (any, bool) {
	key = strings.ToLower(key)
	switch {
	case v == nil:
		return nil, true
	case flagKeys[key]:
		return lenientFlag(v)
	case key == "errorno":
		return v, true
	case key == "countrylist":
		items, isList := v.([]any)
		if !isList {
			return nil, false
		}
		out := make([]any, 0, len(items))
		for _, it := range items {
			switch it := it.(type) {
			case string:
				out = append(out, map[string]any{"country": it})
			case map[string]any:
				out = append(out, lenientObject(it))
			}
		}
		return out, true
	case key == "profile":
		obj, isObj := v.(map[string]any)
		if !isObj {
			return nil, false
		}
		return lenientObject(obj), true
	}

	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return nil, false
}

func lenientFlag(v any) (any, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	case json.Number:
		f, err := v.Float64()
		return f != 0, err == nil
	}
	return nil, false
}

// Bool is a helper for building envelopes in tests and fakes.
func Bool(v bool) *bool { return &v }
