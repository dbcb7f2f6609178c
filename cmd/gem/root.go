package main

import (
	"fmt"
	"runtime/debug"

	"gem.dev/launcher/internal/configloader"
	"gem.dev/launcher/internal/engine"
	"gem.dev/launcher/internal/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type application struct {
	configurationFilePath string
	debug                 bool
	engine                *engine.Engine
}

func rootCommand(app *application) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          APPLICATION_NAME,
		Short:        "Manage and launch an emulated games library",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&app.configurationFilePath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		migrateCommand(app),
		consolesCommand(app),
		emulatorsCommand(app),
		gamesCommand(app),
		commandCommand(app),
		launchCommand(app),
	)
	return rootCmd
}

// start loads the boot configuration and initializes the engine. A database
// requiring a migration is an error unless allowed.
func (app *application) start(allowMigration bool) error {
	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, app.configurationFilePath)
	if err != nil {
		return err
	}
	configuration.Debug = configuration.Debug || app.debug

	logger := logrus.New()
	logger.SetLevel(configuration.Level())
	if bi, ok := debug.ReadBuildInfo(); ok {
		logger.Debugf("Launching %s v.%s", APPLICATION_NAME, bi.Main.Version)
	}
	if app.configurationFilePath != "" {
		logger.Infof("Loaded config file %s", app.configurationFilePath)
	}

	app.engine, err = engine.Initialize(engine.Options{
		ConfigDir: configuration.ConfigDir,
		DataDir:   configuration.DataDir,
		Debug:     configuration.Debug,
		Logger:    logger,
	})
	if errors.Is(err, errors.ErrMigrationRequired) {
		if allowMigration {
			return nil
		}
		return fmt.Errorf("%w: run '%s migrate' first", err, APPLICATION_NAME)
	}
	return err
}

func (app *application) fullscreen(cmd *cobra.Command, flag bool) bool {
	return fullscreenMode(cmd, flag, app.engine.Preferences().Fullscreen)
}

// fullscreenMode returns the --fullscreen flag when given, the preference
// otherwise. --fullscreen=false forces windowed mode.
func fullscreenMode(cmd *cobra.Command, flag, preference bool) bool {
	if cmd.Flags().Changed("fullscreen") {
		return flag
	}
	return preference
}
