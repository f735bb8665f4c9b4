package commands

import (
	"github.com/spf13/cobra"

	cfg "github.com/berand/trinity/config"
	tmos "github.com/berand/trinity/libs/os"
)

// InitFilesCmd initializes the node's home directory and writes the default
// config file if none exists.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the home directory and write a default config file",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, args []string) error {
	if err := cfg.EnsureRoot(config.RootDir); err != nil {
		return err
	}

	configFilePath := cfg.ConfigFilePath(config.RootDir)
	if tmos.FileExists(configFilePath) {
		logger.Info("found config file; skipping", "path", configFilePath)
		return nil
	}

	if err := cfg.WriteConfigFile(config.RootDir, config); err != nil {
		return err
	}
	logger.Info("generated config file", "path", configFilePath)
	return nil
}
