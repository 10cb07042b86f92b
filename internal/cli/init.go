package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/sitemodel/internal/paths"
	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend         string `yaml:"backend"`
	DataDir         string `yaml:"data_dir,omitempty"`
	DefaultFormatID string `yaml:"default_format_id"`
	SyncStrategy    string `yaml:"sync_strategy"`
}

func newInitCmd(a *app) *cobra.Command {
	var user bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize sitemodel storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, then initialize the storage backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, user)
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "keep data in the per-user data directory instead of $(CWD)/.sitemodel-db")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, user bool) error {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	cfg := a.config
	var pinnedDataDir string
	switch {
	case a.dataDir != "":
		pinnedDataDir = cfg.DataDir
	case user:
		dir, err := paths.DefaultDataDir()
		if err != nil {
			return sysError(fmt.Errorf("resolve user data dir: %w", err))
		}
		pinnedDataDir = dir
		cfg.DataDir = dir
	}

	configPath := paths.ConfigFile(configDir)
	written, err := writeConfigIfMissing(configPath, configFile{
		Backend:         cfg.Backend,
		DataDir:         pinnedDataDir,
		DefaultFormatID: cfg.FormatID(),
		SyncStrategy:    cfg.SyncStrategy,
	})
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	store := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := store.Attach(cfg); err != nil {
		return classify(fmt.Errorf("initialize storage: %w", err))
	}
	if err := store.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintf(out, "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out, "Site model initialized in %s\n", cfg.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist, reporting whether it wrote the file.
func writeConfigIfMissing(path string, cfg configFile) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
