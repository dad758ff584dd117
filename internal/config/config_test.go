package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "numflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultTaskQueue, cfg.Temporal.TaskQueue)
	assert.Equal(t, 3*time.Second, cfg.Workflow.ActivityTimeout)
	assert.Equal(t, int32(1), cfg.Workflow.MaxAttempts)
	assert.Equal(t, 5*time.Minute, cfg.Workflow.ExecutionTimeout)
	assert.Equal(t, 10, cfg.Trigger.MaxNumber)
	assert.Equal(t, "5", cfg.Trigger.NumberToCheck)
	assert.Equal(t, SinkNone, cfg.Events.Sink)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := LoadWithEnv("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
temporal:
  host_port: temporal.internal:7233
  namespace: numbers
workflow:
  activity_timeout: 5s
trigger:
  addr: ":9090"
  rate_limit: 2.5
events:
  sink: redis
  redis_addr: redis:6379
log:
  format: json
`)

	cfg, err := LoadWithEnv(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "temporal.internal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "numbers", cfg.Temporal.Namespace)
	assert.Equal(t, DefaultTaskQueue, cfg.Temporal.TaskQueue, "unset fields keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Workflow.ActivityTimeout)
	assert.Equal(t, ":9090", cfg.Trigger.Addr)
	assert.InDelta(t, 2.5, cfg.Trigger.RateLimit, 1e-9)
	assert.Equal(t, SinkRedis, cfg.Events.Sink)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := LoadWithEnv(writeConfig(t, ""), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := LoadWithEnv(writeConfig(t, "temporal:\n  hostport: x:1\n"), nil)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "temporal:\n  namespace: from-file\n")
	env := []string{
		"HOME=/root",
		"NUMFLOW_TEMPORAL_NAMESPACE=from-env",
		"NUMFLOW_WORKFLOW_MAX_ATTEMPTS=3",
		"NUMFLOW_WORKFLOW_ACTIVITY_TIMEOUT=750ms",
		"NUMFLOW_TRIGGER_RATE_LIMIT=0",
		"NUMFLOW_TELEMETRY_INSECURE=true",
	}

	cfg, err := LoadWithEnv(path, env)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Temporal.Namespace, "environment wins over file")
	assert.Equal(t, int32(3), cfg.Workflow.MaxAttempts)
	assert.Equal(t, 750*time.Millisecond, cfg.Workflow.ActivityTimeout)
	assert.Zero(t, cfg.Trigger.RateLimit)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.Equal(t, DefaultHostPort, cfg.Temporal.HostPort)
}

func TestEnvOverridesRejectUnknownKeys(t *testing.T) {
	_, err := LoadWithEnv("", []string{"NUMFLOW_TEMPORAL_BOGUS=1"})
	assert.Error(t, err)

	_, err = LoadWithEnv("", []string{"NUMFLOW_TEMPORAL=1"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty host", func(c *Config) { c.Temporal.HostPort = "" }, "HostPort"},
		{"host without port", func(c *Config) { c.Temporal.HostPort = "localhost" }, "HostPort"},
		{"zero attempts", func(c *Config) { c.Workflow.MaxAttempts = 0 }, "MaxAttempts"},
		{"zero activity timeout", func(c *Config) { c.Workflow.ActivityTimeout = 0 }, "ActivityTimeout"},
		{"non numeric target", func(c *Config) { c.Trigger.NumberToCheck = "five" }, "NumberToCheck"},
		{"fractional target", func(c *Config) { c.Trigger.NumberToCheck = "5.5" }, "NumberToCheck"},
		{"exponent target", func(c *Config) { c.Trigger.NumberToCheck = "1e3" }, "NumberToCheck"},
		{"padded target", func(c *Config) { c.Trigger.NumberToCheck = " 5" }, "NumberToCheck"},
		{"zero max", func(c *Config) { c.Trigger.MaxNumber = 0 }, "MaxNumber"},
		{"unknown sink", func(c *Config) { c.Events.Sink = "kafka" }, "Sink"},
		{"redis without addr", func(c *Config) { c.Events.Sink = SinkRedis }, "RedisAddr"},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }, "SampleRatio"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateAcceptsSignedTargets(t *testing.T) {
	for _, target := range []string{"0", "-3", "+7", "9007199254740993"} {
		cfg := DefaultConfig()
		cfg.Trigger.NumberToCheck = target
		assert.NoError(t, cfg.Validate(), target)
	}
}

func TestLoadRejectsFractionalTargetFromEnv(t *testing.T) {
	_, err := LoadWithEnv("", []string{"NUMFLOW_TRIGGER_NUMBER_TO_CHECK=5.5"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "decimal_int")
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Temporal.Namespace = ""
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Namespace")
	assert.Contains(t, err.Error(), "Format")
}
