package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		AI: AIConfig{
			Fallback:            "basic",
			HealThreshold:       0.5,
			PostActivationDelay: 250 * time.Millisecond,
		},
		Scripting: ScriptingConfig{
			ScriptDir:        "content/scripts",
			InstructionLimit: 100000,
		},
		Content: ContentConfig{
			AbilitiesDir: "content/abilities",
			SummonsFile:  "content/summons/summon.yaml",
			DomainsDir:   "content/ai",
			CreaturesDir: "content/creatures",
		},
		Arena: ArenaConfig{
			MaxRounds:    20,
			ActionPoints: 10,
			MoveCost:     1,
			AttackCost:   3,
			SummonPolicy: "basic",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
ai:
  fallback: pass
  heal_threshold: 0.25
  post_activation_delay: 100ms
arena:
  max_rounds: 5
  seed: 42
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "pass", cfg.AI.Fallback)
	assert.Equal(t, 0.25, cfg.AI.HealThreshold)
	assert.Equal(t, 100*time.Millisecond, cfg.AI.PostActivationDelay)
	assert.Equal(t, 5, cfg.Arena.MaxRounds)
	assert.Equal(t, uint64(42), cfg.Arena.Seed)
	// Defaults fill the rest.
	assert.Equal(t, 10, cfg.Arena.ActionPoints)
	assert.Equal(t, "content/scripts", cfg.Scripting.ScriptDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("HALE_AI_FALLBACK", "pass")
	t.Setenv("HALE_ARENA_MAX_ROUNDS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pass", cfg.AI.Fallback)
	assert.Equal(t, 3, cfg.Arena.MaxRounds)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_Defaults(t *testing.T) {
	cfg, err := LoadFromViper(NewViper())
	require.NoError(t, err)
	assert.Equal(t, "basic", cfg.AI.Fallback)
	assert.Equal(t, 0.5, cfg.AI.HealThreshold)
	assert.Equal(t, "content/summons/summon.yaml", cfg.Content.SummonsFile)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := NewViper()
	v.Set("arena.max_rounds", 0)
	_, err := LoadFromViper(v)
	assert.ErrorContains(t, err, "arena.max_rounds")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateAI(t *testing.T) {
	cfg := validConfig()
	cfg.AI.Fallback = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.AI.PostActivationDelay = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestValidateScripting(t *testing.T) {
	cfg := validConfig()
	cfg.Scripting.ScriptDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Scripting.InstructionLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateContent(t *testing.T) {
	cfg := validConfig()
	cfg.Content.SummonsFile = ""
	assert.NoError(t, cfg.Validate(), "summons file is optional")

	cfg.Content.DomainsDir = ""
	assert.ErrorContains(t, cfg.Validate(), "content.domains_dir")
}

func TestValidateArenaCosts(t *testing.T) {
	cfg := validConfig()
	cfg.Arena.MoveCost = 11
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Arena.AttackCost = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Arena.SummonPolicy = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	cfg.Arena.MaxRounds = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "arena.max_rounds")
}

// Property-based tests

func TestPropertyHealThresholdRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		th := rapid.Float64Range(-2, 2).Draw(t, "threshold")
		cfg := validConfig()
		cfg.AI.HealThreshold = th
		err := cfg.Validate()
		valid := th > 0 && th <= 1
		if valid && err != nil {
			t.Fatalf("valid threshold %v rejected: %v", th, err)
		}
		if !valid && err == nil {
			t.Fatalf("invalid threshold %v accepted", th)
		}
	})
}

func TestPropertyCostsWithinBudget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ap := rapid.IntRange(1, 50).Draw(t, "ap")
		move := rapid.IntRange(1, ap).Draw(t, "move")
		attack := rapid.IntRange(1, ap).Draw(t, "attack")
		cfg := validConfig()
		cfg.Arena.ActionPoints = ap
		cfg.Arena.MoveCost = move
		cfg.Arena.AttackCost = attack
		if err := cfg.Validate(); err != nil {
			t.Fatalf("ap=%d move=%d attack=%d rejected: %v", ap, move, attack, err)
		}
	})
}
