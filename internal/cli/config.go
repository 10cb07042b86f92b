// Config loading for the sitemodel CLI.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/internal/paths"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys in config.yaml.
	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyDefaultFormat = "default_format_id"
	cfgKeySyncStrategy  = "sync_strategy"
)

// Environment variables that override config.yaml keys. SITEMODEL_DATA_DIR
// is not bound here; paths.ResolveDataDir ranks it below the config file.
var configEnv = map[string]string{
	cfgKeyDefaultFormat: "SITEMODEL_DEFAULT_FORMAT_ID",
	cfgKeySyncStrategy:  "SITEMODEL_SYNC_STRATEGY",
}

// newViper returns a viper instance with the sitemodel defaults.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDefaultFormat, types.DefaultFormatID)
	v.SetDefault(cfgKeySyncStrategy, types.SyncImmediate)
	for key, env := range configEnv {
		_ = v.BindEnv(key, env)
	}
	return v
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper and resolves the data directory. A missing config.yaml is not an
// error.
func (a *app) loadConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	v := newViper()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, userError(fmt.Errorf("read config: %w", err))
		}
		a.logger.Debug("no config file", zap.String("config_dir", configDir))
	} else {
		a.logger.Debug("loaded config", zap.String("file", v.ConfigFileUsed()))
	}

	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	cfg := types.Config{
		Backend:         v.GetString(cfgKeyBackend),
		DataDir:         dataDir,
		DefaultFormatID: v.GetString(cfgKeyDefaultFormat),
		SyncStrategy:    v.GetString(cfgKeySyncStrategy),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError(fmt.Errorf("config %s: %w", paths.ConfigFile(configDir), err))
	}
	return cfg, nil
}
