// Package config loads process configuration from defaults, an optional
// YAML file and NUMFLOW_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full process configuration.
type Config struct {
	Temporal  TemporalConfig  `yaml:"temporal"`
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Trigger   TriggerConfig   `yaml:"trigger"`
	Events    EventsConfig    `yaml:"events"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// TemporalConfig locates the Temporal frontend.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port" validate:"required,hostname_port"`
	Namespace string `yaml:"namespace" validate:"required"`
	TaskQueue string `yaml:"task_queue" validate:"required"`
}

// WorkflowConfig tunes executions.
type WorkflowConfig struct {
	ActivityTimeout  time.Duration `yaml:"activity_timeout" validate:"gt=0"`
	MaxAttempts      int32         `yaml:"max_attempts" validate:"gte=1"`
	ExecutionTimeout time.Duration `yaml:"execution_timeout" validate:"gt=0"`
	IDPrefix         string        `yaml:"id_prefix" validate:"required"`
}

// TriggerConfig configures the HTTP trigger.
type TriggerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	RateLimit       float64       `yaml:"rate_limit" validate:"gte=0"` // requests per second, 0 disables
	Burst           int           `yaml:"burst" validate:"gte=0"`
	MaxNumber       int           `yaml:"max_number" validate:"gt=0"`
	NumberToCheck   string        `yaml:"number_to_check" validate:"required,decimal_int"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// Event sink kinds.
const (
	SinkNone   = "none"
	SinkMemory = "memory"
	SinkRedis  = "redis"
)

// EventsConfig selects where activity events go.
type EventsConfig struct {
	Sink      string        `yaml:"sink" validate:"oneof=none memory redis"`
	RedisAddr string        `yaml:"redis_addr" validate:"required_if=Sink redis"`
	RedisDB   int           `yaml:"redis_db" validate:"gte=0"`
	Stream    string        `yaml:"stream" validate:"required"`
	DedupeTTL time.Duration `yaml:"dedupe_ttl" validate:"gt=0"`
	MaxLen    int64         `yaml:"max_len" validate:"gte=0"`
}

// TelemetryConfig configures trace export.
type TelemetryConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name" validate:"required"`
	SampleRatio float64 `yaml:"sample_ratio" validate:"gte=0,lte=1"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimal_int accepts exactly what strconv.Atoi accepts, matching the
	// parsing applied to numberToCheck at execution time.
	_ = v.RegisterValidation("decimal_int", func(fl validator.FieldLevel) bool {
		_, err := strconv.Atoi(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports every constraint violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	errs := []error{ErrInvalidConfig}
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}
