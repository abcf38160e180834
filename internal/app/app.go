package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"codeberg.org/picedit/picedit/configs"
)

var rootCmd = &cobra.Command{
	Use:               "picedit",
	Short:             "Open, scale and convert raster images",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: appPersistentPreRun,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&logLevel, "level", "l",
		configs.Config.Main.LogLevel, "Log level",
	)
}

// defaultConfigPath returns the configuration file path used when
// none is given. It's empty when the user configuration directory
// is unknown.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "picedit", "config.toml")
}

func appPersistentPreRun(c *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		// The default configuration file is optional
		path = defaultConfigPath()
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	if err := configs.LoadConfiguration(path); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}

	setupLogger(c)
	return nil
}

func setupLogger(c *cobra.Command) {
	if c.Flags().Changed("level") {
		configs.Config.Main.LogLevel = logLevel
	}

	// Enforce debug in dev mode
	if configs.Config.Main.DevMode {
		configs.Config.Main.LogLevel = "debug"
	}

	lvl, err := log.ParseLevel(configs.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.WithField("log_level", lvl).Debug()
	if configs.Config.Main.DevMode {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStdout())
		log.SetLevel(log.TraceLevel)
	}
}

// Run starts the application
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP,
	)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		println("Bye!")
		return nil
	}
	return err
}
