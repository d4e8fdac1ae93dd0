// Command lobctl is a thin host around the matching engine: it owns a
// single in-process Engine and replays a scripted or interactive
// sequence of add/cancel/modify operations against it, printing the
// trades and snapshots that result. It is not part of the engine's
// designed interface -- it exists only to exercise the library.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ticklob/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "lobctl",
		Short: "Drive a limit order book matching engine from a script or stdin.",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (see internal/config)")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every admission/rejection at debug level")

	root.AddCommand(newRunCommand(&configPath, &verbose))
	return root
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
