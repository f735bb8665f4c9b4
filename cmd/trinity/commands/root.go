package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/berand/trinity/config"
	"github.com/berand/trinity/libs/log"
)

var (
	config = cfg.DefaultConfig()
	logger = log.MustNewDefaultLogger(log.LogFormatPlain, log.LogLevelInfo)
)

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg.DefaultTrinityDir
	}
	return filepath.Join(home, cfg.DefaultTrinityDir)
}

// ParseConfig retrieves the default environment configuration, sets up the
// Trinity root and ensures that the root exists.
func ParseConfig() (*cfg.Config, error) {
	conf := cfg.DefaultConfig()
	if err := viper.Unmarshal(conf); err != nil {
		return nil, err
	}

	conf.SetRoot(conf.RootDir)
	if err := conf.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("error in config file: %w", err)
	}
	return conf, nil
}

// RootCmd is the root command for Trinity.
var RootCmd = &cobra.Command{
	Use:   "trinity",
	Short: "Trinity blockchain full node in Go",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		home := viper.GetString("home")
		viper.SetConfigFile(cfg.ConfigFilePath(home))
		viper.SetEnvPrefix("TRINITY")
		viper.AutomaticEnv()

		// a missing config file is fine; flags and defaults apply
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return err
			}
		}

		var err error
		config, err = ParseConfig()
		if err != nil {
			return err
		}
		config.RootDir = home
		config.SetRoot(home)

		logger, err = log.NewDefaultLogger(config.LogFormat, config.LogLevel)
		if err != nil {
			return err
		}
		logger = logger.With("module", "main")
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().String("home", defaultHome(), "directory for config and data")
	RootCmd.PersistentFlags().String("log-level", config.LogLevel, "log level")
	RootCmd.PersistentFlags().String("log-format", config.LogFormat,
		fmt.Sprintf("log format (%s or %s)", log.LogFormatPlain, log.LogFormatJSON))
}
