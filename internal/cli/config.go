package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/matchgame/internal/setgame"
)

// EnvPrefix prefixes every environment variable the CLI reads,
// e.g. MATCHGAME_DB or MATCHGAME_BONUS_SECONDS.
const EnvPrefix = "MATCHGAME"

// Config holds settings shared by the play command and its flags.
// Values come from, in increasing precedence: defaults, the config file,
// MATCHGAME_* environment variables, then flags set on the command line.
type Config struct {
	DB           string `mapstructure:"db"`
	ThemesDir    string `mapstructure:"themes_dir"`
	Theme        string `mapstructure:"theme"`
	InitialDeal  int    `mapstructure:"initial_deal" validate:"gte=0,lte=81"`
	MaxCount     int    `mapstructure:"max_count" validate:"gte=1,lte=9"`
	BonusSeconds int    `mapstructure:"bonus_seconds" validate:"gte=0,lte=3600"`
	Seed         int64  `mapstructure:"seed"`
	Shuffle      bool   `mapstructure:"shuffle"`
}

// BonusTimeLimit returns the memorize bonus window.
func (c Config) BonusTimeLimit() time.Duration {
	return time.Duration(c.BonusSeconds) * time.Second
}

// Params returns the set game sizing.
func (c Config) Params() setgame.Params {
	return setgame.Params{MaxCount: c.MaxCount, InitialDeal: c.InitialDeal}
}

// configFlags maps config keys to the flag names that override them.
var configFlags = map[string]string{
	"db":            "db",
	"themes_dir":    "themes-dir",
	"theme":         "theme",
	"initial_deal":  "initial-deal",
	"max_count":     "max-count",
	"bonus_seconds": "bonus-seconds",
	"seed":          "seed",
	"shuffle":       "shuffle",
}

// addConfigFlags registers the flags that override config keys.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("db", "", "path to SQLite database; empty plays without recording")
	f.String("themes-dir", "", "directory of CUE theme files; empty uses built-in themes")
	f.String("theme", "", "memorize theme name; empty uses the first theme")
	f.Int("initial-deal", setgame.DefaultParams.InitialDeal, "set cards dealt at the start")
	f.Int("max-count", setgame.DefaultParams.MaxCount, "largest symbol count on a set card")
	f.Int("bonus-seconds", 10, "memorize bonus window in seconds; 0 disables it")
	f.Int64("seed", 0, "random seed; 0 picks one")
	f.Bool("shuffle", true, "shuffle the set deck")
}

// LoadConfig resolves the configuration for cmd.
//
// configPath is optional; when set the file must exist and parse.
func LoadConfig(cmd *cobra.Command, configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db", "")
	v.SetDefault("themes_dir", "")
	v.SetDefault("theme", "")
	v.SetDefault("initial_deal", setgame.DefaultParams.InitialDeal)
	v.SetDefault("max_count", setgame.DefaultParams.MaxCount)
	v.SetDefault("bonus_seconds", 10)
	v.SetDefault("seed", 0)
	v.SetDefault("shuffle", true)

	if configPath != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, name := range configFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", describeValidation(err))
	}

	return &cfg, nil
}

// describeValidation rewrites validator errors in terms of config keys.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)",
			configKey(fe.StructField()), fe.Tag(), fe.Param(), fe.Value()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func configKey(field string) string {
	switch field {
	case "InitialDeal":
		return "initial_deal"
	case "MaxCount":
		return "max_count"
	case "BonusSeconds":
		return "bonus_seconds"
	}
	return strings.ToLower(field)
}
