// Package configloader reads the boot configuration of the engine from an
// optional YAML file and the environment.
package configloader

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Structure to bind application parameters
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"` // logrus library log level to be assigned
	// Empty directories fall back to the XDG locations
	ConfigDir string `mapstructure:"CONFIG_DIR"`
	DataDir   string `mapstructure:"DATA_DIR"`
	Debug     bool   `mapstructure:"DEBUG"`
}

// Level returns the logrus level to use. Debug mode forces the debug level
// and an unreadable level falls back to info.
func (config Config) Level() logrus.Level {
	if config.Debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Initialize default parameters values
func initDefaultConfiguration(loader *viper.Viper) {
	loader.SetDefault("LOG_LEVEL", "info")
	loader.SetDefault("CONFIG_DIR", "")
	loader.SetDefault("DATA_DIR", "")
	loader.SetDefault("DEBUG", false)
}

// Load configuration from env file
func LoadConfiguration(applicationName string, configurationFilePath string) (config Config, err error) {
	loader := viper.New()
	initDefaultConfiguration(loader)

	if configurationFilePath == "" {
		// Read the volume root path
		root := filepath.VolumeName(".")
		if root == "" {
			root = string(filepath.Separator)
		}

		// Set configuration named config from etc/*appName*, $HOME/.*appName* or current folders
		loader.AddConfigPath(filepath.Join(root, "etc", applicationName))
		loader.AddConfigPath(filepath.Join("$HOME", "."+applicationName))
		loader.AddConfigPath(".")
		loader.SetConfigName("config")
		loader.SetConfigType("yaml")
	} else {
		// Set the configuration file path
		loader.SetConfigFile(configurationFilePath)
	}

	// Get configuration from environment variables, if set
	loader.AutomaticEnv()

	// Get configuration from configuration file, if set
	if configError := loader.ReadInConfig(); configError != nil {
		logrus.Debug(configError.Error())
	}
	err = loader.Unmarshal(&config)

	return
}
