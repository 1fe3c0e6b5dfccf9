package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
)

// ---- fake client ----

type reply struct {
	resp *client.Response
	err  error
}

func ok(env client.Envelope) reply {
	return reply{resp: &client.Response{StatusCode: http.StatusOK, Envelope: env, Decoded: true}}
}

func failed(err error) reply { return reply{err: err} }

func status(code int, env client.Envelope) reply {
	return reply{err: &client.StatusError{Code: code, Envelope: env}}
}

// fakeClient implements client.Client. Unset replies fail with
// client.ErrUnavailable. Calls records the method names in call order.
type fakeClient struct {
	Calls []string

	LoginReplies map[client.Encoding]reply
	Profile      *reply
	UpdateImage  *reply
	ProfileImage *reply
	Countries    *reply
	Code         *reply
	Mobile       *reply
	Email        *reply
	RegisterRet  *reply

	LastLogins   []client.Encoding
	LastMobile   client.MobileRequest
	LastEmail    string
	LastRegister client.RegisterRequest
	LastImage    client.ImageRequest
}

func (f *fakeClient) answer(name string, r *reply) (*client.Response, error) {
	f.Calls = append(f.Calls, name)
	if r == nil {
		return nil, client.ErrUnavailable
	}
	return r.resp, r.err
}

func (f *fakeClient) Login(_ context.Context, _ client.LoginRequest, enc client.Encoding) (*client.Response, error) {
	f.LastLogins = append(f.LastLogins, enc)
	r, found := f.LoginReplies[enc]
	if !found {
		return f.answer("Login", nil)
	}
	return f.answer("Login", &r)
}

func (f *fakeClient) GetProfile(context.Context, client.ProfileRequest) (*client.Response, error) {
	return f.answer("GetProfile", f.Profile)
}

func (f *fakeClient) UpdateProfileImage(_ context.Context, req client.ImageRequest) (*client.Response, error) {
	f.LastImage = req
	return f.answer("UpdateProfileImage", f.UpdateImage)
}

func (f *fakeClient) UpdateProfileViaProfile(_ context.Context, req client.ImageRequest) (*client.Response, error) {
	f.LastImage = req
	return f.answer("UpdateProfileViaProfile", f.ProfileImage)
}

func (f *fakeClient) CountryList(context.Context) (*client.Response, error) {
	return f.answer("CountryList", f.Countries)
}

func (f *fakeClient) CountryCode(context.Context, string) (*client.Response, error) {
	return f.answer("CountryCode", f.Code)
}

func (f *fakeClient) ValidateMobileNumber(_ context.Context, req client.MobileRequest) (*client.Response, error) {
	f.LastMobile = req
	return f.answer("ValidateMobileNumber", f.Mobile)
}

func (f *fakeClient) ValidateEmail(_ context.Context, email string) (*client.Response, error) {
	f.LastEmail = email
	return f.answer("ValidateEmail", f.Email)
}

func (f *fakeClient) Register(_ context.Context, req client.RegisterRequest) (*client.Response, error) {
	f.LastRegister = req
	return f.answer("Register", f.RegisterRet)
}

func ptr(r reply) *reply { return &r }
