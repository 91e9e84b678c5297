package main

import (
	"fmt"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/heuristic"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/models"
	"github.com/jeremyhon/codex-cli-account-switcher/pkg/resolver"
	"github.com/spf13/cobra"
)

func newSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch [name]",
		Short: "Switch to a saved account, auto-selecting by quota when unnamed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var target string
			if len(args) > 0 {
				target = args[0]
			} else {
				if target, err = a.pickBestAccount(cmd); err != nil {
					return err
				}
				fmt.Printf("[*] Auto-selecting account (max weekly urgency; excludes rolling <= %d%%): %s\n",
					a.cfg.Selection.RollingUnusablePct, target)
			}

			if err := a.store.EnsureDirs(); err != nil {
				return err
			}
			if _, err := a.reconciler(cmd.InOrStdin(), cmd.OutOrStdout()).Resolve(); err != nil {
				return err
			}

			if !a.store.Exists(target) {
				return fmt.Errorf("no saved account named '%s'. Use 'codex-accounts list' to see options", target)
			}

			current := a.state.Load().Current
			if current == target {
				fmt.Printf("[OK] Already on account: %s\n", current)
				return nil
			}

			if a.store.LiveAuthExists() {
				if current == "" {
					prompt := promptAccountName(cmd.InOrStdin(), cmd.OutOrStdout())
					if current, err = prompt(); err != nil {
						return err
					}
				}
				fmt.Printf("[*] Saving current auth.json to %s...\n", a.store.Path(current))
				if err := a.store.SaveCurrent(current); err != nil {
					return err
				}
			}

			fmt.Printf("[*] Switching to '%s'...\n", target)
			if err := a.store.Activate(target); err != nil {
				return err
			}

			old := a.state.Load().Current
			if err := a.state.Save(models.SessionState{Current: target, Previous: old}); err != nil {
				return err
			}
			fmt.Printf("[OK] Switched. Current account: %s\n", target)
			return nil
		},
	}
}

// pickBestAccount fetches usage for every saved account and asks the
// configured heuristic to choose one.
func (a *app) pickBestAccount(cmd *cobra.Command) (string, error) {
	names, err := a.store.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no accounts saved yet. Run 'codex-accounts save <name>' first")
	}

	chooser, err := heuristic.Lookup(a.cfg.Selection.Heuristic)
	if err != nil {
		return "", err
	}

	c, err := a.openCache()
	if err != nil {
		return "", err
	}
	defer func() { _ = c.Close() }()

	results := a.resolver(c).Resolve(cmd.Context(), names)
	candidates := resolver.Candidates(names, results)

	picked := chooser.Choose(candidates, time.Now().Unix(), a.heuristicConfig())
	if picked == "" {
		return "", fmt.Errorf("unable to determine best account (usage unavailable). Provide a name")
	}
	if !a.store.Exists(picked) {
		return "", fmt.Errorf("heuristic returned unknown account '%s'", picked)
	}
	return picked, nil
}
