package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"codeberg.org/picedit/picedit/configs"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Args:  cobra.NoArgs,
	// The file doesn't exist yet, there is nothing to load
	PersistentPreRun: func(c *cobra.Command, _ []string) {
		setupLogger(c)
	},
	RunE: func(c *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = defaultConfigPath()
		}
		if path == "" {
			return errors.New("no configuration path")
		}
		if err := initConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration in use",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		b, err := toml.Marshal(configs.Config)
		if err != nil {
			return err
		}
		_, err = c.OutOrStdout().Write(b)
		return err
	},
}

// initConfigFile writes the configuration to filename, creating its
// folder when needed.
func initConfigFile(filename string) error {
	if err := createFolder(filepath.Dir(filename)); err != nil {
		return err
	}
	if err := configs.WriteConfig(filename); err != nil {
		return err
	}
	log.WithField("path", filename).Info("configuration written")
	return nil
}

func createFolder(name string) error {
	stat, err := os.Stat(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(name, 0750); err != nil {
				return err
			}
		} else {
			return err
		}
	} else if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a directory", name)
	}

	return nil
}
