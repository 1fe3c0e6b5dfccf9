package services

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(*client.Response, error) Outcome
		reply  reply
		expect Outcome
	}{
		{"mobile valid", classifyMobile, ok(client.Envelope{IsSuccess: client.Bool(true)}), Valid},
		{"mobile success flag only", classifyMobile, ok(client.Envelope{Success: client.Bool(true)}), Indeterminate},
		{"mobile errorNo", classifyMobile, ok(client.Envelope{ErrorNo: 2}), Invalid},
		{"mobile other errorNo", classifyMobile, ok(client.Envelope{ErrorNo: 9}), Indeterminate},
		{"mobile marker in error body", classifyMobile, status(400, client.Envelope{ErrorDescription: "Invalid mobile number"}), Invalid},
		{"mobile transport", classifyMobile, failed(errors.New("timeout")), Indeterminate},
		{"email valid flag", classifyEmail, ok(client.Envelope{Valid: client.Bool(true)}), Valid},
		{"email success flag", classifyEmail, ok(client.Envelope{Success: client.Bool(true)}), Valid},
		{"email errorNo", classifyEmail, ok(client.Envelope{ErrorNo: 6}), Invalid},
		{"email description", classifyEmail, status(422, client.Envelope{ErrorDescription: "Please enter a valid email"}), Invalid},
		{"email mobile code is not an email marker", classifyEmail, ok(client.Envelope{ErrorNo: 2}), Indeterminate},
		{"email undecoded body", classifyEmail, reply{resp: &client.Response{StatusCode: 200}}, Indeterminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.fn(tt.reply.resp, tt.reply.err))
		})
	}
}

func TestPolicies(t *testing.T) {
	assert.True(t, FailOpen(Valid))
	assert.True(t, FailOpen(Indeterminate))
	assert.False(t, FailOpen(Invalid))

	assert.True(t, FailClosed(Valid))
	assert.False(t, FailClosed(Indeterminate))
	assert.False(t, FailClosed(Invalid))
}
