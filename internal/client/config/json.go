package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration accepts "15s" style strings or integer nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or an integer: %s", b)
	}
	*d = Duration(n)
	return nil
}

// jsonConfig is used only for unmarshalling. Pointer fields tell an absent
// key from an empty value, so a partial file overrides only what it names.
type jsonConfig struct {
	AccountAPIURL  *string   `json:"account_api_url"`
	CommonAPIURL   *string   `json:"common_api_url"`
	RequestTimeout *Duration `json:"request_timeout"`
	DatabasePath   *string   `json:"database_path"`
	LogLevel       *string   `json:"log_level"`
	LogFormat      *string   `json:"log_format"`
	MetricsFile    *string   `json:"metrics_file"`
}

func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.AccountAPIURL, jc.AccountAPIURL)
	setString(&cfg.CommonAPIURL, jc.CommonAPIURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.MetricsFile, jc.MetricsFile)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
