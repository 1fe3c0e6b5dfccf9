package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophprofile/internal/client/client"
	"github.com/dmitrijs2005/gophprofile/internal/client/fallback"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDirectory_Countries(t *testing.T) {
	tests := []struct {
		name  string
		reply *reply
		want  []models.CountryEntry
	}{
		{
			name: "remote",
			reply: ptr(ok(client.Envelope{
				IsSuccess:   client.Bool(true),
				CountryList: []client.CountryItem{{Country: "Japan"}, {Country: "Sri Lanka"}},
			})),
			want: []models.CountryEntry{{Country: "Japan"}, {Country: "Sri Lanka"}},
		},
		{name: "unavailable", reply: nil, want: FallbackCountries},
		{name: "no success flag", reply: ptr(ok(client.Envelope{CountryList: []client.CountryItem{{Country: "Japan"}}})), want: FallbackCountries},
		{name: "empty list", reply: ptr(ok(client.Envelope{IsSuccess: client.Bool(true)})), want: FallbackCountries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDirectoryService(&fakeClient{Countries: tt.reply}, logging.NewNop(), nil)
			assert.Equal(t, tt.want, svc.Countries(context.Background()))
		})
	}
}

func TestDirectory_CountriesReturnsCopy(t *testing.T) {
	svc := NewDirectoryService(&fakeClient{}, logging.NewNop(), nil)
	got := svc.Countries(context.Background())
	got[0].Country = "changed"
	assert.Equal(t, "Sri Lanka", FallbackCountries[0].Country)
}

func TestDirectory_CallingCode(t *testing.T) {
	tests := []struct {
		name    string
		country string
		reply   *reply
		want    string
		calls   int
	}{
		{"empty country", "", ptr(ok(client.Envelope{IsSuccess: client.Bool(true), IDDCode: "+1"})), "", 0},
		{"remote", "Japan", ptr(ok(client.Envelope{IsSuccess: client.Bool(true), IDDCode: "+81"})), "+81", 1},
		{"fallback table", "Germany", nil, "+49", 1},
		{"fallback on missing code", "Canada", ptr(ok(client.Envelope{IsSuccess: client.Bool(true)})), "+1", 1},
		{"unknown", "Japan", ptr(status(500, client.Envelope{})), "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{Code: tt.reply}
			svc := NewDirectoryService(fc, logging.NewNop(), nil)
			assert.Equal(t, tt.want, svc.CallingCode(context.Background(), tt.country))
			assert.Len(t, fc.Calls, tt.calls)
		})
	}
}

func TestDirectory_ChainsReportAttempts(t *testing.T) {
	metrics := fallback.NewMetrics(prometheus.NewRegistry())
	fc := &fakeClient{
		Countries: ptr(failed(client.ErrUnavailable)),
		Code:      ptr(ok(client.Envelope{IsSuccess: client.Bool(true), IDDCode: "+81"})),
	}
	svc := NewDirectoryService(fc, logging.NewNop(), metrics)

	assert.Equal(t, FallbackCountries, svc.Countries(context.Background()))
	assert.Equal(t, "+81", svc.CallingCode(context.Background(), "Japan"))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Attempts.WithLabelValues("countries", TierRemote, string(fallback.OutcomeError))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Attempts.WithLabelValues("countries", TierBuiltin, string(fallback.OutcomeAccepted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Attempts.WithLabelValues("calling-code", TierRemote, string(fallback.OutcomeAccepted))))
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.Attempts))
}
