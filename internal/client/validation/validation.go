// Package validation implements the local, synchronous form rules of the
// login and registration screens. No network access happens here.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/go-playground/validator/v10"
)

// PrefixRuleCountry is the only country whose mobile numbers are checked
// for a leading digit.
const PrefixRuleCountry = "Sri Lanka"

var (
	digitsRe     = regexp.MustCompile(`^\d+$`)
	emailShapeRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	allowedLeadingDigits = []string{"0", "7"}
)

// messages holds the user-facing text per field and rule.
var messages = map[string]map[string]string{
	"username": {
		"required": "Username is required",
		"min":      "Username must be at least 3 characters",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
	},
	"confirmPassword": {
		"eqfield": "Passwords do not match",
	},
	"firstName": {
		"required": "First name is required",
	},
	"country": {
		"required": "Country is required",
	},
	"iddCode": {
		"required": "Country code is required",
	},
	"nationalNumber": {
		"required":     "Phone number is required",
		"min":          "Phone number must be at least 9 digits",
		"max":          "Phone number must be maximum 10 digits",
		"digits":       "Phone number should contain only digits",
		"leadingdigit": "Sri Lankan mobile numbers should start with 0 or 7",
	},
	"email": {
		"required":   "Email is required",
		"emailshape": "Please enter a valid email address",
	},
}

// Validator checks forms and reports field errors keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// Registration of static rules cannot fail.
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShapeRe.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(leadingDigitRule, models.RegistrationForm{})

	return &Validator{v: v}
}

func leadingDigitRule(sl validator.StructLevel) {
	form := sl.Current().Interface().(models.RegistrationForm)
	if form.Country != PrefixRuleCountry || form.NationalNumber == "" {
		return
	}
	for _, d := range allowedLeadingDigits {
		if strings.HasPrefix(form.NationalNumber, d) {
			return
		}
	}
	sl.ReportError(form.NationalNumber, "nationalNumber", "NationalNumber", "leadingdigit", "")
}

// Login validates credentials. The username is checked after trimming.
func (v *Validator) Login(c models.Credentials) models.FieldErrors {
	c.Username = strings.TrimSpace(c.Username)
	return v.check(c)
}

// Registration validates a registration form after normalising it.
func (v *Validator) Registration(f models.RegistrationForm) models.FieldErrors {
	return v.check(f.Normalized())
}

func (v *Validator) check(s any) models.FieldErrors {
	errs := models.FieldErrors{}

	err := v.v.Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs[models.GeneralField] = err.Error()
		return errs
	}

	for _, fe := range ve {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = message(field, fe.Tag())
	}
	return errs
}

func message(field, tag string) string {
	if m, ok := messages[field][tag]; ok {
		return m
	}
	return field + " is invalid"
}
