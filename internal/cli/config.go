package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/internal/logging"
	"github.com/mesh-intelligence/depot/internal/paths"
	"github.com/mesh-intelligence/depot/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyMode           = "mode"
	cfgKeyLogLevel       = "log_level"
	cfgKeyConnectTimeout = "connect_timeout"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	Mode     string `yaml:"mode"`
	LogLevel string `yaml:"log_level"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults apply. DEPOT_MODE and
// DEPOT_LOG_LEVEL override the file.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyMode, types.ModeConnected)
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyConnectTimeout, types.DefaultConnectTimeout)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.BindEnv(cfgKeyMode, "DEPOT_MODE"); err != nil {
		return nil, err
	}
	if err := v.BindEnv(cfgKeyLogLevel, logging.EnvLogLevel); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// settings is the resolved configuration for one command run.
type settings struct {
	configDir string
	config    types.Config
	logger    *zap.Logger
}

// resolveSettings combines flags, config.yaml, and the environment.
// Directory precedence is flag > config.yaml > environment > platform default.
func resolveSettings(cmd *cobra.Command) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	mode := v.GetString(cfgKeyMode)
	if flags.mode != "" {
		mode = flags.mode
	}

	level := v.GetString(cfgKeyLogLevel)
	if flags.debug {
		level = "debug"
	}
	logger, err := logging.NewWithWriter(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return &settings{
		configDir: configDir,
		config: types.Config{
			Backend:        v.GetString(cfgKeyBackend),
			DataDir:        dataDir,
			Mode:           mode,
			ConnectTimeout: v.GetDuration(cfgKeyConnectTimeout),
		},
		logger: logger,
	}, nil
}
