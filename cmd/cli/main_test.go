package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/Login":
			_, _ = io.WriteString(w, `{"isSuccess":true,"accessToken":"tok"}`)
		case "/GetProfile":
			_, _ = io.WriteString(w, `{"isSuccess":true,"profile":{"username":"alice","firstName":"Alice","mobileNumber":"+94771234567"}}`)
		case "/GetCountryList":
			_, _ = io.WriteString(w, `{"isSuccess":true,"countryList":[{"country":"Japan"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	logOutput = io.Discard

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(input), &out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func baseArgs(t *testing.T, srv *httptest.Server, db string) []string {
	return []string{
		"--account-url", srv.URL,
		"--common-url", srv.URL,
		"--db", db,
		"--env-file", filepath.Join(t.TempDir(), "none.env"),
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd(strings.NewReader(""), io.Discard)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"login", "register", "profile", "upload", "countries", "logout"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestCountriesCommand(t *testing.T) {
	srv := fakeAPI(t)

	out, err := run(t, "", append([]string{"countries"}, baseArgs(t, srv, ":memory:")...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "1. Japan")
}

func TestLoginThenProfile_PersistsSessionAndMetrics(t *testing.T) {
	srv := fakeAPI(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "gp.db")
	metrics := filepath.Join(dir, "gp.prom")

	args := append([]string{"login", "--metrics-file", metrics}, baseArgs(t, srv, db)...)
	out, err := run(t, "alice\nsecret1\n", args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful")
	assert.Contains(t, out, "+94 771234567")

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gophprofile_fallback_attempts_total{chain="login",outcome="accepted",strategy="multipart"} 1`)

	// the session survives in the database file
	out, err = run(t, "", append([]string{"profile"}, baseArgs(t, srv, db)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")

	_, err = run(t, "", append([]string{"logout"}, baseArgs(t, srv, db)...)...)
	require.NoError(t, err)

	out, err = run(t, "", append([]string{"profile"}, baseArgs(t, srv, db)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Type 'login' to sign in")
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "", "countries", "--log-format", "xml", "--db", ":memory:")
	require.Error(t, err)
}

func TestUploadNeedsFile(t *testing.T) {
	_, err := run(t, "", "upload")
	require.Error(t, err)
}
