package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every gpcli command.
const (
	FlagConfig      = "config"
	FlagEnvFile     = "env-file"
	FlagAccountURL  = "account-url"
	FlagCommonURL   = "common-url"
	FlagTimeout     = "timeout"
	FlagDatabase    = "db"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
	FlagMetricsFile = "metrics-file"
)

// RegisterFlags adds the configuration flags to fs. Flag defaults are shown
// for help only; ApplyFlags copies values the user actually set.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON config file")
	fs.String(FlagEnvFile, ".env", "path to a .env file")
	fs.StringP(FlagAccountURL, "a", d.AccountAPIURL, "base URL of the account endpoints")
	fs.String(FlagCommonURL, d.CommonAPIURL, "base URL of the shared lookup endpoints")
	fs.DurationP(FlagTimeout, "t", d.RequestTimeout, "timeout of every remote call")
	fs.String(FlagDatabase, d.DatabasePath, `local database file (":memory:" for none)`)
	fs.String(FlagLogLevel, d.LogLevel, "debug, info, warn or error")
	fs.String(FlagLogFormat, d.LogFormat, "text, json or console")
	fs.String(FlagMetricsFile, d.MetricsFile, "write fallback metrics to this file on exit")
}

// ApplyFlags overrides cfg with every flag changed on the command line.
func ApplyFlags(cfg *Config, fs *pflag.FlagSet) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{FlagAccountURL, &cfg.AccountAPIURL},
		{FlagCommonURL, &cfg.CommonAPIURL},
		{FlagDatabase, &cfg.DatabasePath},
		{FlagLogLevel, &cfg.LogLevel},
		{FlagLogFormat, &cfg.LogFormat},
		{FlagMetricsFile, &cfg.MetricsFile},
	}
	for _, s := range strs {
		if !fs.Changed(s.name) {
			continue
		}
		v, err := fs.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = v
	}

	if fs.Changed(FlagTimeout) {
		v, err := fs.GetDuration(FlagTimeout)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = v
	}
	return nil
}
