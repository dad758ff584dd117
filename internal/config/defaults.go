package config

import "time"

// Temporal defaults.
const (
	DefaultHostPort  = "localhost:7233"
	DefaultNamespace = "default"
	DefaultTaskQueue = "random-number-queue"
)

// Workflow defaults.
const (
	DefaultActivityTimeout  = 3 * time.Second
	DefaultMaxAttempts      = 1
	DefaultExecutionTimeout = 5 * time.Minute
	DefaultIDPrefix         = "random-number"
)

// Trigger defaults.
const (
	DefaultAddr            = ":8080"
	DefaultRateLimit       = 10
	DefaultBurst           = 20
	DefaultMaxNumber       = 10
	DefaultNumberToCheck   = "5"
	DefaultShutdownTimeout = 10 * time.Second
)

// Events defaults.
const (
	DefaultStream    = "numflow:events"
	DefaultDedupeTTL = 24 * time.Hour
	DefaultMaxLen    = 10000
)

// DefaultConfig returns a configuration that runs against a local Temporal
// dev server with events and trace export disabled.
func DefaultConfig() *Config {
	return &Config{
		Temporal: TemporalConfig{
			HostPort:  DefaultHostPort,
			Namespace: DefaultNamespace,
			TaskQueue: DefaultTaskQueue,
		},
		Workflow: WorkflowConfig{
			ActivityTimeout:  DefaultActivityTimeout,
			MaxAttempts:      DefaultMaxAttempts,
			ExecutionTimeout: DefaultExecutionTimeout,
			IDPrefix:         DefaultIDPrefix,
		},
		Trigger: TriggerConfig{
			Addr:            DefaultAddr,
			RateLimit:       DefaultRateLimit,
			Burst:           DefaultBurst,
			MaxNumber:       DefaultMaxNumber,
			NumberToCheck:   DefaultNumberToCheck,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Events: EventsConfig{
			Sink:      SinkNone,
			Stream:    DefaultStream,
			DedupeTTL: DefaultDedupeTTL,
			MaxLen:    DefaultMaxLen,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "numflow",
			SampleRatio: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
