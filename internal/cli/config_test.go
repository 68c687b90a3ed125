package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configCommand returns a command carrying the config flags, parsed from args.
func configCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "probe"}
	addConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matchgame.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(configCommand(t), "")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DB)
	assert.Equal(t, 12, cfg.InitialDeal)
	assert.Equal(t, 3, cfg.MaxCount)
	assert.Equal(t, 10*time.Second, cfg.BonusTimeLimit())
	assert.Equal(t, int64(0), cfg.Seed)
	assert.True(t, cfg.Shuffle)
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
db: from-file.db
theme: Sports
initial_deal: 9
bonus_seconds: 5
shuffle: false
`)
	t.Setenv("MATCHGAME_THEME", "Vehicles")
	t.Setenv("MATCHGAME_SEED", "123")

	cfg, err := LoadConfig(configCommand(t, "--initial-deal", "6"), path)
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DB, "file overrides default")
	assert.Equal(t, "Vehicles", cfg.Theme, "env overrides file")
	assert.Equal(t, int64(123), cfg.Seed, "env overrides default")
	assert.Equal(t, 6, cfg.InitialDeal, "flag overrides file")
	assert.Equal(t, 5*time.Second, cfg.BonusTimeLimit())
	assert.False(t, cfg.Shuffle)
	assert.Equal(t, 3, cfg.Params().MaxCount)
}

func TestLoadConfigEnvKeyReplacer(t *testing.T) {
	t.Setenv("MATCHGAME_THEMES_DIR", "/srv/themes")
	t.Setenv("MATCHGAME_MAX_COUNT", "2")

	cfg, err := LoadConfig(configCommand(t), "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/themes", cfg.ThemesDir)
	assert.Equal(t, 2, cfg.MaxCount)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"max count too small", []string{"--max-count", "0"}, "max_count must satisfy gte=1"},
		{"initial deal too large", []string{"--initial-deal", "82"}, "initial_deal must satisfy lte=81"},
		{"negative bonus", []string{"--bonus-seconds", "-1"}, "bonus_seconds must satisfy gte=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(configCommand(t, tt.args...), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "configuration validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(configCommand(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestPlayUsesEnvironment(t *testing.T) {
	t.Setenv("MATCHGAME_SEED", "31")

	out, _, err := executePlay(t, testPlayOptions("text"), "", "set")
	require.NoError(t, err)
	assert.Contains(t, out, "(set, seed 31)")
}
