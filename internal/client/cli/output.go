package cli

import (
	"errors"
	"sort"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// report prints err for the user. Field errors are listed one per line with
// the form-level message first.
func (a *App) report(err error) {
	var fe models.FieldErrors
	if !errors.As(err, &fe) {
		a.println("Error:", err.Error())
		return
	}

	if msg, ok := fe[models.GeneralField]; ok {
		a.println(msg)
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		if k != models.GeneralField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.println("  " + k + ": " + fe[k])
	}
}
