package models

import (
	"sort"
	"strings"
)

// GeneralField is the FieldErrors key for errors not tied to a single input.
const GeneralField = "general"

// FieldErrors maps an input name to the message shown next to it.
// An empty map means the form passed validation.
type FieldErrors map[string]string

// General builds a FieldErrors holding a single form-level message.
func General(msg string) FieldErrors {
	return FieldErrors{GeneralField: msg}
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return strings.Join(parts, "; ")
}
