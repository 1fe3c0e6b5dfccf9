package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/records"
	"github.com/dmitrijs2005/gophprofile/internal/client/validation"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

const (
	msgMobileInvalid      = "Invalid mobile number. Please check your phone number."
	msgEmailInvalid       = "Invalid email address. Please check your email."
	msgRegistrationFailed = "Registration failed. Please try again."
)

// RegistrationService submits the registration form.
type RegistrationService interface {
	// Register returns models.FieldErrors for every user-facing failure. On
	// success the caller shows the login screen; no session is created.
	Register(ctx context.Context, form models.RegistrationForm) error
}

type registrationService struct {
	client    client.Client
	store     records.Store
	validator *validation.Validator
	log       logging.Logger
	policy    Policy
}

type RegistrationOption func(*registrationService)

// WithPolicy replaces the FailOpen policy applied to remote checks.
func WithPolicy(p Policy) RegistrationOption {
	return func(r *registrationService) { r.policy = p }
}

func NewRegistrationService(c client.Client, store records.Store, log logging.Logger, opts ...RegistrationOption) RegistrationService {
	r := &registrationService{
		client:    c,
		store:     store,
		validator: validation.New(),
		log:       log,
		policy:    FailOpen,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register runs local validation, the remote mobile check, the remote email
// check and the submission, strictly in that order. A blocking outcome at
// any step stops the flow before the next remote call.
func (r *registrationService) Register(ctx context.Context, form models.RegistrationForm) error {
	form = form.Normalized()
	if errs := r.validator.Registration(form); len(errs) > 0 {
		return errs
	}

	// the API expects the national number without its trunk prefix
	national := strings.TrimPrefix(form.NationalNumber, "0")

	mobile := classifyMobile(r.client.ValidateMobileNumber(ctx, client.MobileRequest{
		CallingCode:    form.CallingCode,
		NationalNumber: national,
		Username:       form.Username,
	}))
	r.log.Debug(ctx, "mobile number checked", "outcome", mobile.String())
	if !r.policy(mobile) {
		return models.FieldErrors{"nationalNumber": msgMobileInvalid}
	}

	email := classifyEmail(r.client.ValidateEmail(ctx, form.Email))
	r.log.Debug(ctx, "email checked", "outcome", email.String())
	if !r.policy(email) {
		return models.FieldErrors{"email": msgEmailInvalid}
	}

	resp, err := r.client.Register(ctx, client.RegisterRequest{
		Username:        form.Username,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Country:         form.Country,
		CallingCode:     form.CallingCode,
		NationalNumber:  national,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		r.log.Warn(ctx, "registration request failed", "username", form.Username, "error", err)
		if env, ok := client.EnvelopeOf(err); ok {
			return models.General(client.MessageFrom(env, msgRegistrationFailed))
		}
		return models.General(msgRegistrationFailed)
	}
	if !registrationAccepted(resp) {
		return models.General(client.MessageFrom(resp.Envelope, msgRegistrationFailed))
	}

	user := models.CachedUser{
		Username:       form.Username,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Email:          form.Email,
		Country:        form.Country,
		CallingCode:    form.CallingCode,
		NationalNumber: form.NationalNumber,
	}
	if err := r.store.SaveUser(ctx, user); err != nil {
		r.log.Error(ctx, "cache registered user", "username", form.Username, "error", err)
	}

	r.log.Info(ctx, "registration succeeded", "username", form.Username)
	return nil
}

func registrationAccepted(resp *client.Response) bool {
	env := resp.Envelope
	return env.Succeeded() || (resp.StatusCode == http.StatusOK && !env.ExplicitlyFailed())
}
