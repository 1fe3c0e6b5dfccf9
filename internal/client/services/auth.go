// Package services contains the application services of the client: login
// and logout, registration with its remote checks, the country directory,
// and profile loading and image upload.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/fallback"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/client/records"
	"github.com/dmitrijs2005/gophprofile/internal/client/validation"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
)

const (
	msgLoginRejected = "Login failed. Please check your credentials."
	msgLoginFailed   = "Login failed. Please try again."
)

// Login strategy names, in the order they are tried.
const (
	StrategyMultipart = "multipart"
	StrategyJSON      = "json"
)

// AuthService defines the login screen operations.
//
// Contract:
//   - Login: validate locally, authenticate remotely, persist the session.
//     Validation and remote failures are reported as models.FieldErrors.
//   - Logout: remove the session and the cached user.
//   - Session: return the stored session or ErrNoSession.
//   - StoredRecords: list the names of the locally stored records.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (models.Session, error)
	StoredRecords(ctx context.Context) ([]string, error)
}

type authService struct {
	client    client.Client
	store     records.Store
	validator *validation.Validator
	log       logging.Logger
	metrics   *fallback.Metrics
}

// NewAuthService constructs an AuthService. metrics may be nil.
func NewAuthService(c client.Client, store records.Store, log logging.Logger, metrics *fallback.Metrics) AuthService {
	return &authService{
		client:    c,
		store:     store,
		validator: validation.New(),
		log:       log,
		metrics:   metrics,
	}
}

func loginAccepted(r *client.Response) bool {
	return r.Envelope.Succeeded() || r.Envelope.AccessToken != ""
}

// Login tries a multipart request first and, after any failure of that
// attempt, a JSON request with explicit headers. The second attempt is not
// conditional on the kind of failure.
func (a *authService) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	if errs := a.validator.Login(creds); len(errs) > 0 {
		return models.Session{}, errs
	}

	req := client.LoginRequest{Username: strings.TrimSpace(creds.Username), Password: creds.Password}

	chain := fallback.New("login", a.log, []fallback.Strategy[*client.Response]{
		{
			Name: StrategyMultipart,
			Do: func(ctx context.Context) (*client.Response, error) {
				return a.client.Login(ctx, req, client.EncodingMultipart)
			},
			OK: loginAccepted,
		},
		{
			Name: StrategyJSON,
			Do: func(ctx context.Context) (*client.Response, error) {
				return a.client.Login(ctx, req, client.EncodingJSON)
			},
			OK: loginAccepted,
		},
	}, fallback.WithMetrics[*client.Response](a.metrics))

	res := chain.Run(ctx)
	if !res.Succeeded() {
		return models.Session{}, models.General(loginFailure(res))
	}

	session := models.Session{Token: res.Value.Envelope.SessionToken(), Username: req.Username}
	if session.Token == "" {
		a.log.Warn(ctx, "login accepted without a token", "username", req.Username, "strategy", res.Strategy)
	}
	if err := a.store.SaveSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("save session: %w", err)
	}

	a.log.Info(ctx, "login succeeded", "username", req.Username, "strategy", res.Strategy)
	return session, nil
}

func loginFailure(res fallback.Result[*client.Response]) string {
	if env, ok := client.EnvelopeOf(res.Err); ok {
		return client.MessageFrom(env, msgLoginFailed)
	}
	if res.Value != nil {
		return client.MessageFrom(res.Value.Envelope, msgLoginRejected)
	}
	return msgLoginFailed
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return fmt.Errorf("clear local records: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) StoredRecords(ctx context.Context) ([]string, error) {
	keys, err := a.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list local records: %w", err)
	}
	return keys, nil
}

func (a *authService) Session(ctx context.Context) (models.Session, error) {
	s, err := a.store.LoadSession(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if !s.Valid() {
		return models.Session{}, ErrNoSession
	}
	return s, nil
}
