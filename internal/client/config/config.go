package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GPCLI_"

// Config holds runtime settings for the gpcli client.
//
// DatabasePath ":memory:" keeps the session and cached user in process
// memory only. MetricsFile, when set, receives the fallback counters in the
// Prometheus text format on exit.
type Config struct {
	AccountAPIURL  string        `env:"ACCOUNT_API_URL, default=https://apis.mavicsoft.com/endpoints/ccc-hr-25-f" validate:"required,url"`
	CommonAPIURL   string        `env:"COMMON_API_URL, default=https://apis.mavicsoft.com/endpoints/common" validate:"required,url"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=15s" validate:"gt=0"`
	DatabasePath   string        `env:"DB_PATH, default=gophprofile.db" validate:"required"`
	LogLevel       string        `env:"LOG_LEVEL, default=info" validate:"oneof=debug info warn error"`
	LogFormat      string        `env:"LOG_FORMAT, default=text" validate:"oneof=text json console"`
	MetricsFile    string        `env:"METRICS_FILE"`
}

// MemoryDatabase selects the in-memory store.
const MemoryDatabase = ":memory:"

// LoadDefaults populates c with the built-in defaults.
func (c *Config) LoadDefaults() {
	*c = Config{}
	// an empty lookuper cannot fail on the static defaults
	_ = envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   c,
		Lookuper: envconfig.MapLookuper(nil),
	})
}

// LoadEnvFile loads variables from the given .env files into the process
// environment. Missing files are ignored; variables that are already set
// win over the file.
func LoadEnvFile(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load applies defaults and the environment seen through lookuper, then
// overlays jsonPath when it is not empty. A nil lookuper reads the process
// environment.
func Load(ctx context.Context, lookuper envconfig.Lookuper, jsonPath string) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	cfg := &Config{}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if jsonPath != "" {
		if err := applyJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return fmt.Errorf("invalid config: %s fails %q", ve[0].Field(), ve[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
