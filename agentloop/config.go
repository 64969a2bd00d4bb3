package agentloop

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const defaultSystemPrompt = `You are an autonomous agent. Work toward the user's task by requesting the available actions. When the task is finished, call the "done" action with your final result. Do not stop requesting actions until the task is complete.`

// Config holds iteration engine configuration. It is a plain value passed
// into NewEngine; nothing in the engine reads process-wide state.
type Config struct {
	MaxIterations       int    `env:"RUNLOOP_MAX_ITERATIONS" envDefault:"10"`
	SystemPrompt        string `env:"RUNLOOP_SYSTEM_PROMPT"`
	EnableLoopDetection bool   `env:"RUNLOOP_LOOP_DETECTION"`
	LoopDetectionWindow int    `env:"RUNLOOP_LOOP_DETECTION_WINDOW" envDefault:"6"`

	// Per-action output limits applied before results are fed back to the
	// backend. The event log always records the full output.
	OutputCharLimits map[string]int `env:"-"`
	OutputLineLimits map[string]int `env:"-"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       10,
		SystemPrompt:        defaultSystemPrompt,
		LoopDetectionWindow: 6,
	}
}

// ConfigFromEnv builds a Config from RUNLOOP_* environment variables on top
// of the defaults. This is the one place the environment is consulted;
// callers pass the resulting value into NewEngine explicitly.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse engine config from env: %w", err)
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	return cfg, nil
}
