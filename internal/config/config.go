package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	CityCSVPath  string `env:"CITY_CSV_PATH" validate:"required"`
	QuakeCSVPath string `env:"QUAKE_CSV_PATH" validate:"required"`

	DistanceUnit        string  `env:"DISTANCE_UNIT" validate:"oneof=km mi"`
	ClosestCityRadiusKm float64 `env:"CLOSEST_CITY_RADIUS_KM" validate:"gt=0"`
	NearbyCacheSize     int     `env:"NEARBY_CACHE_SIZE" validate:"gt=0"`

	HTTPAddr        string        `env:"HTTP_ADDR" validate:"required"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

var validate = newValidator()

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	radius, err := parseRadius()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		CityCSVPath:         sharedcfg.EnvOrDefault("CITY_CSV_PATH", "worldcitiesF23.csv"),
		QuakeCSVPath:        sharedcfg.EnvOrDefault("QUAKE_CSV_PATH", "earthquakesF23.csv"),
		DistanceUnit:        sharedcfg.EnvOrDefault("DISTANCE_UNIT", "km"),
		ClosestCityRadiusKm: radius,
		NearbyCacheSize:     parseNearbyCacheSize(),
		HTTPAddr:            sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints. Errors name the offending environment variable.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid %s: failed %q constraint", fe.Field(), fe.Tag())
	}
	return err
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

func parseRadius() (float64, error) {
	s := sharedcfg.EnvOrDefault("CLOSEST_CITY_RADIUS_KM", "5000")
	radius, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("invalid CLOSEST_CITY_RADIUS_KM")
	}
	return radius, nil
}

func parseNearbyCacheSize() int {
	if s := os.Getenv("NEARBY_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
