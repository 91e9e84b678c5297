package main

import (
	"fmt"
	"os"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "codex-accounts",
		Short:   "Manage multiple Codex CLI accounts and switch by remaining quota",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to config file")

	root.AddCommand(
		newListCmd(),
		newCurrentCmd(),
		newSaveCmd(),
		newAddCmd(),
		newSwitchCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
