package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"vet-clinic-scheduling/internal/domain/scheduling"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config se arma con defaults, luego .env y por último variables de entorno.
type Config struct {
	Port      string `mapstructure:"PORT"`
	DBDSN     string `mapstructure:"DB_DSN"`
	AppName   string `mapstructure:"APP_NAME"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	ClinicOpeningTime string `mapstructure:"CLINIC_OPENING_TIME"`
	ClinicClosingTime string `mapstructure:"CLINIC_CLOSING_TIME"`

	TxMaxRetries int `mapstructure:"TX_MAX_RETRIES"`

	HTTPReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
}

var defaults = map[string]any{
	"PORT":                "8080",
	"DB_DSN":              "",
	"APP_NAME":            "vet-clinic-scheduling",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "text",
	"JWT_SECRET":          "",
	"CLINIC_OPENING_TIME": scheduling.DefaultBusinessHours.Opening,
	"CLINIC_CLOSING_TIME": scheduling.DefaultBusinessHours.Closing,
	"TX_MAX_RETRIES":      3,
	"HTTP_READ_TIMEOUT":   "5s",
	"HTTP_WRITE_TIMEOUT":  "10s",
}

// Load lee la configuración. envFile vacío = ".env"; si no existe se ignora.
func Load(envFile string) (Config, error) {
	if strings.TrimSpace(envFile) == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is required")
	}
	if c.TxMaxRetries < 0 {
		return errors.New("TX_MAX_RETRIES must be >= 0")
	}
	if c.HTTPReadTimeout <= 0 || c.HTTPWriteTimeout <= 0 {
		return errors.New("HTTP timeouts must be positive")
	}

	opening, err := clock(c.ClinicOpeningTime)
	if err != nil {
		return fmt.Errorf("CLINIC_OPENING_TIME: %w", err)
	}
	closing, err := clock(c.ClinicClosingTime)
	if err != nil {
		return fmt.Errorf("CLINIC_CLOSING_TIME: %w", err)
	}
	if !closing.After(opening) {
		return scheduling.ErrInvalidBusinessHours
	}
	return nil
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}

func (c Config) BusinessHours() scheduling.BusinessHours {
	return scheduling.BusinessHours{
		Opening: strings.TrimSpace(c.ClinicOpeningTime),
		Closing: strings.TrimSpace(c.ClinicClosingTime),
	}
}

func clock(raw string) (time.Time, error) {
	return time.Parse(scheduling.TimeLayout, scheduling.NormalizeTime(raw))
}
