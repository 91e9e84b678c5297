package main

import (
	"fmt"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
	"github.com/spf13/cobra"
)

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save [name]",
		Short: "Save the live credential as a named account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.requireLiveAuth(); err != nil {
				return err
			}

			var name string
			if len(args) > 0 {
				name = args[0]
			} else {
				prompt := promptAccountName(cmd.InOrStdin(), cmd.OutOrStdout())
				if name, err = prompt(); err != nil {
					return err
				}
			}

			fmt.Printf("[*] Saving current auth.json to %s...\n", a.store.Path(name))
			if err := a.store.SaveCurrent(name); err != nil {
				return err
			}
			fmt.Println("[OK] Saved.")

			old := a.state.Load().Current
			return a.state.Save(models.SessionState{Current: name, Previous: old})
		},
	}
}
