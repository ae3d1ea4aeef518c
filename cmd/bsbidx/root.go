package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bsbidx",
		Short: "Build and query a disk-resident blocked sort-based inverted index",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.bsbidx.yaml)")
	cobra.OnInitialize(initConfig)

	root.AddCommand(newBuildCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newInspectCmd())
	return root
}

// initConfig layers a config file under explicit CLI flags. Unlike a
// typical viper setup, environment variables are never consulted: the
// indexing and query engine is deliberately insensitive to the shell it
// runs in, so a build behaves identically in CI, a container, or a laptop.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".bsbidx")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "bsbidx: using config file", viper.ConfigFileUsed())
	}
}
