/*
Package cmd implements the embedding command-line interface for the
agentwire runtime: a demo agent server and a small client for poking at
remote agents. The library itself carries no CLI surface; this is the
embedding program.
*/
package cmd

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

/*
Embed a mini filesystem into the binary to hold the default config file.
It is written to the home directory of the user running the service on
first start, so a developer can override it without rebuilding.
*/
//go:embed cfg/*
var embedded embed.FS

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "agentwire",
		Short: "An agent-to-agent task runtime",
		Long:  longRoot,
	}
)

// Execute is the entry point for the agentwire CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is $HOME/.agentwire.yml)",
	)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal("could not determine home directory", "error", err)
		}

		path := filepath.Join(home, ".agentwire.yml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if writeErr := writeDefaultConfig(path); writeErr != nil {
				log.Fatal("could not write default config", "error", writeErr)
			}
			log.Info("wrote default config", "path", path)
		}

		viper.SetConfigFile(path)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn("could not read config, using defaults", "error", err)
	}
}

func writeDefaultConfig(path string) error {
	raw, err := fs.ReadFile(embedded, "cfg/config.yml")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

var longRoot = `
agentwire exposes named skills as asynchronous, cancellable, observable
tasks over HTTP, and ships a symmetric client for driving tasks on other
agents. Any agent can be a server and a client at once, which is how
agents compose.
`
