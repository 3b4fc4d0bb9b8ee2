package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	moneydec "github.com/rezonia/efactura-reconciler/internal/decimal"
	"github.com/rezonia/efactura-reconciler/internal/logger"
	"github.com/rezonia/efactura-reconciler/internal/reconcile"
)

// Environment keys
const (
	KeyDownloadDir        = "EFACTURA_DOWNLOAD_DIR"
	KeyWorkers            = "EFACTURA_WORKERS"
	KeyDetectTolerance    = "EFACTURA_DETECT_TOLERANCE"
	KeyReconcileTolerance = "EFACTURA_RECONCILE_TOLERANCE"
	KeyPayableTolerance   = "EFACTURA_PAYABLE_TOLERANCE"
	KeyDiscountKeywords   = "EFACTURA_DISCOUNT_KEYWORDS"
	KeyLogLevel           = "LOG_LEVEL"
	KeyLogFormat          = "LOG_FORMAT"
	KeyLogOutput          = "LOG_OUTPUT"
	KeyHTTPAddress        = "HTTP_ADDRESS"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

// Config is the application configuration, read once at startup
type Config struct {
	DownloadDir string
	Workers     int

	DetectTolerance    decimal.Decimal
	ReconcileTolerance decimal.Decimal
	PayableTolerance   decimal.Decimal
	DiscountKeywords   []string

	LogLevel  string
	LogFormat string
	LogOutput string

	HTTPAddress string
}

// Load reads .env from the working directory and the environment
func Load() (*Config, error) {
	return LoadFrom(DefaultEnvFile)
}

// LoadFrom reads configuration from envFile (optional) and the environment.
// Environment variables take precedence over the file.
func LoadFrom(envFile string) (*Config, error) {
	// populate the process environment so flag defaults see the same values
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}
	// an explicitly empty variable overrides the default, e.g. no discount keywords
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		DownloadDir:      v.GetString(KeyDownloadDir),
		Workers:          v.GetInt(KeyWorkers),
		DiscountKeywords: splitList(v.GetString(KeyDiscountKeywords)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		LogOutput:        v.GetString(KeyLogOutput),
		HTTPAddress:      v.GetString(KeyHTTPAddress),
	}

	var err error
	if cfg.DetectTolerance, err = getDecimal(v, KeyDetectTolerance); err != nil {
		return nil, err
	}
	if cfg.ReconcileTolerance, err = getDecimal(v, KeyReconcileTolerance); err != nil {
		return nil, err
	}
	if cfg.PayableTolerance, err = getDecimal(v, KeyPayableTolerance); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyDownloadDir, "dlds")
	v.SetDefault(KeyWorkers, 8)
	v.SetDefault(KeyDetectTolerance, reconcile.DefaultDetectTolerance.String())
	v.SetDefault(KeyReconcileTolerance, reconcile.DefaultReconcileTolerance.String())
	v.SetDefault(KeyPayableTolerance, "0.00")
	v.SetDefault(KeyDiscountKeywords, strings.Join(reconcile.DefaultDiscountKeywords, ","))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogOutput, "stderr")
	v.SetDefault(KeyHTTPAddress, ":8080")
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, c.Workers)
	}
	for key, tol := range map[string]decimal.Decimal{
		KeyDetectTolerance:    c.DetectTolerance,
		KeyReconcileTolerance: c.ReconcileTolerance,
		KeyPayableTolerance:   c.PayableTolerance,
	} {
		if tol.IsNegative() {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	if strings.TrimSpace(c.DownloadDir) == "" {
		return fmt.Errorf("%s must not be empty", KeyDownloadDir)
	}
	return nil
}

// Reconcile builds the engine configuration
func (c *Config) Reconcile() reconcile.Config {
	cfg := reconcile.Config{
		DetectTolerance:    c.DetectTolerance,
		ReconcileTolerance: c.ReconcileTolerance,
		PayableTolerance:   c.PayableTolerance,
		FakeDiscount:       reconcile.NeverPredicate{},
	}
	if len(c.DiscountKeywords) > 0 {
		cfg.FakeDiscount = reconcile.NewKeywordPredicate(c.DiscountKeywords...)
	}
	return cfg
}

// LoggerConfig returns the logging configuration
func (c *Config) LoggerConfig() logger.LogConfig {
	cfg := logger.DefaultConfig()
	cfg.Level = c.LogLevel
	cfg.Format = c.LogFormat
	cfg.Output = c.LogOutput
	return cfg
}

func getDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := moneydec.FromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
