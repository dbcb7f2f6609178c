package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "gem"

func main() {
	app := &application{}
	err := rootCommand(app).Execute()
	if app.engine != nil {
		if shutdownErr := app.engine.Shutdown(); shutdownErr != nil {
			logrus.Error(shutdownErr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
