package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the agent's runtime settings, loadable from a YAML file.
// Zero values fall back to the defaults below.
type Config struct {
	Model        string `yaml:"model"`
	MaxSteps     int    `yaml:"max_steps"`
	MaxTokens    int64  `yaml:"max_tokens"`
	SystemPrompt string `yaml:"system_prompt"`
	Workspace    string `yaml:"workspace"`
}

const defaultSystemPrompt = "You are a top-level software engineer. " +
	"Work toward the user's goal with the tools provided, one step at a time. " +
	"Inspect before you change, keep edits minimal, and call the complete tool when the goal is reached."

func defaultConfig() Config {
	return Config{
		Model:        "claude-sonnet-4-5",
		MaxSteps:     100,
		MaxTokens:    1024,
		SystemPrompt: defaultSystemPrompt,
		Workspace:    ".",
	}
}

// loadConfig reads path (when non-empty) over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = defaultConfig().MaxSteps
	}
	if cfg.Model == "" {
		cfg.Model = defaultConfig().Model
	}
	return cfg, nil
}
