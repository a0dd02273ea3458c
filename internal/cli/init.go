package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/depot/internal/paths"
	"github.com/mesh-intelligence/depot/pkg/depot"
	"github.com/mesh-intelligence/depot/pkg/types"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize depot storage",
		Long:  "Create the configuration and data directories, then create the database schema.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := paths.ConfigFile(s.configDir)
	written, err := writeConfigIfMissing(configPath, configFile{
		Backend:  types.BackendSQLite,
		DataDir:  flags.dataDir,
		Mode:     s.config.GetMode(),
		LogLevel: "warn",
	})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if written {
		s.logger.Info("config written", zap.String("path", configPath))
	}

	cfg := s.config
	cfg.Mode = types.ModeConnected
	store, err := depot.Open(cmd.Context(), cfg, depot.WithLogger(s.logger))
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	if flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"config_dir": s.configDir,
			"data_dir":   cfg.DataDir,
		})
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Depot initialized in %s\n", cfg.DataDir)
	return err
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
