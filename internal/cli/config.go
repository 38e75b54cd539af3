package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/poneglyph/internal/paths"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Config keys in config.yaml.
const (
	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyLogLevel   = "log_level"
	cfgKeyOriginals  = "game.originals"
	cfgKeyMinDefense = "game.min_defense"
	cfgKeyOnWin      = "game.on_win"
	cfgKeyOnLoss     = "game.on_loss"
)

// configFile is the structure written to a fresh config.yaml.
type configFile struct {
	Backend  string           `yaml:"backend"`
	DataDir  string           `yaml:"data_dir,omitempty"`
	LogLevel string           `yaml:"log_level"`
	Game     types.GameConfig `yaml:"game"`
}

func defaultConfigFile() configFile {
	return configFile{
		Backend:  types.BackendSQLite,
		LogLevel: "info",
		Game: types.GameConfig{
			Originals:  types.DefaultOriginals,
			MinDefense: types.DefaultMinDefense,
			OnWin:      types.StakeMerge,
			OnLoss:     types.StakeForfeit,
		},
	}
}

// settings is the resolved CLI configuration.
type settings struct {
	configDir string
	config    types.Config
	logLevel  string
}

// loadSettings resolves the config and data directories, writes a default
// config.yaml on first run and reads it with viper. Flags override file
// values.
func loadSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return settings{}, fmt.Errorf("write config: %w", err)
	}

	v := viper.New()
	def := defaultConfigFile()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		configDir: configDir,
		config: types.Config{
			Backend: v.GetString(cfgKeyBackend),
			DataDir: dataDir,
			Game: types.GameConfig{
				Originals:  v.GetInt(cfgKeyOriginals),
				MinDefense: v.GetString(cfgKeyMinDefense),
				OnWin:      v.GetString(cfgKeyOnWin),
				OnLoss:     v.GetString(cfgKeyOnLoss),
			},
		},
		logLevel: v.GetString(cfgKeyLogLevel),
	}
	if flags.logLevel != "" {
		s.logLevel = flags.logLevel
	}
	if err := s.config.Validate(); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", paths.ConfigFile(configDir), err)
	}
	if s.config.Backend != types.BackendSQLite {
		return settings{}, fmt.Errorf("backend %q does not persist between commands; use %q",
			s.config.Backend, types.BackendSQLite)
	}
	return s, nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist.
func writeConfigIfMissing(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
