// Package config provides Viper-based configuration loading for the arena
// runner and its policies.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// AIConfig holds turn policy settings.
type AIConfig struct {
	// Fallback names the policy the standard policy defers to.
	Fallback string `mapstructure:"fallback"`
	// HealThreshold is the HP fraction below which heals are tried first.
	HealThreshold float64 `mapstructure:"heal_threshold"`
	// PostActivationDelay is the pause after every committed ability.
	PostActivationDelay time.Duration `mapstructure:"post_activation_delay"`
}

// ScriptingConfig holds Lua runtime settings.
type ScriptingConfig struct {
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps instructions per hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ContentConfig locates the YAML content files.
type ContentConfig struct {
	AbilitiesDir string `mapstructure:"abilities_dir"`
	SummonsFile  string `mapstructure:"summons_file"`
	DomainsDir   string `mapstructure:"domains_dir"`
	CreaturesDir string `mapstructure:"creatures_dir"`
}

// ArenaConfig holds battle rules for the in-memory arena.
type ArenaConfig struct {
	MaxRounds int `mapstructure:"max_rounds"`
	// Seed makes dice deterministic when non-zero.
	Seed         uint64 `mapstructure:"seed"`
	ActionPoints int    `mapstructure:"action_points"`
	MoveCost     int    `mapstructure:"move_cost"`
	AttackCost   int    `mapstructure:"attack_cost"`
	// SummonPolicy runs summoned creatures without a policy of their own.
	SummonPolicy string `mapstructure:"summon_policy"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	AI        AIConfig        `mapstructure:"ai"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Content   ContentConfig   `mapstructure:"content"`
	Arena     ArenaConfig     `mapstructure:"arena"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateAI(c.AI),
		validateScripting(c.Scripting),
		validateContent(c.Content),
		validateArena(c.Arena),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateAI(a AIConfig) error {
	var errs []string
	if a.Fallback == "" {
		errs = append(errs, "ai.fallback must not be empty")
	}
	if a.HealThreshold <= 0 || a.HealThreshold > 1 {
		errs = append(errs, fmt.Sprintf("ai.heal_threshold must be in (0, 1], got %v", a.HealThreshold))
	}
	if a.PostActivationDelay < 0 {
		errs = append(errs, "ai.post_activation_delay must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	var errs []string
	if s.ScriptDir == "" {
		errs = append(errs, "scripting.script_dir must not be empty")
	}
	if s.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", s.InstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for key, val := range map[string]string{
		"content.abilities_dir": c.AbilitiesDir,
		"content.domains_dir":   c.DomainsDir,
		"content.creatures_dir": c.CreaturesDir,
	} {
		if val == "" {
			errs = append(errs, key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateArena(a ArenaConfig) error {
	var errs []string
	if a.MaxRounds < 1 {
		errs = append(errs, fmt.Sprintf("arena.max_rounds must be >= 1, got %d", a.MaxRounds))
	}
	if a.ActionPoints < 1 {
		errs = append(errs, fmt.Sprintf("arena.action_points must be >= 1, got %d", a.ActionPoints))
	}
	if a.MoveCost < 1 || a.MoveCost > a.ActionPoints {
		errs = append(errs, fmt.Sprintf("arena.move_cost must be in [1, action_points], got %d", a.MoveCost))
	}
	if a.AttackCost < 1 || a.AttackCost > a.ActionPoints {
		errs = append(errs, fmt.Sprintf("arena.attack_cost must be in [1, action_points], got %d", a.AttackCost))
	}
	if a.SummonPolicy == "" {
		errs = append(errs, "arena.summon_policy must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with HALE_ prefix
	v.SetEnvPrefix("HALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewViper returns a Viper instance holding only the defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("ai.fallback", "basic")
	v.SetDefault("ai.heal_threshold", 0.5)
	v.SetDefault("ai.post_activation_delay", "0s")

	v.SetDefault("scripting.script_dir", "content/scripts")
	v.SetDefault("scripting.instruction_limit", 100000)

	v.SetDefault("content.abilities_dir", "content/abilities")
	v.SetDefault("content.summons_file", "content/summons/summon.yaml")
	v.SetDefault("content.domains_dir", "content/ai")
	v.SetDefault("content.creatures_dir", "content/creatures")

	v.SetDefault("arena.max_rounds", 20)
	v.SetDefault("arena.seed", 0)
	v.SetDefault("arena.action_points", 10)
	v.SetDefault("arena.move_cost", 1)
	v.SetDefault("arena.attack_cost", 3)
	v.SetDefault("arena.summon_policy", "basic")
}
