package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Prepare a fresh login for a new account",
		Long: `Backs up the currently logged-in account, then clears the live
credential so a fresh "codex login" authenticates the new account.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			newName := args[0]
			if newName == "" {
				return fmt.Errorf("account name cannot be empty")
			}

			if err := a.store.EnsureDirs(); err != nil {
				return err
			}
			if _, err := a.reconciler(cmd.InOrStdin(), cmd.OutOrStdout()).Resolve(); err != nil {
				return err
			}

			if a.store.LiveAuthExists() {
				fmt.Printf("[*] Clearing %s to prepare login for '%s'...\n", a.store.LiveAuthPath(), newName)
				if err := a.store.ClearLive(); err != nil {
					return err
				}
			}

			fmt.Printf("[OK] Ready. Now run: codex login  (to authenticate '%s')\n", newName)
			fmt.Printf("After login completes, run: codex-accounts save %s   (to store the new account)\n", newName)
			return nil
		},
	}
}
