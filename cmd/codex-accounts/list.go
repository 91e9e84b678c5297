package main

import (
	"fmt"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/usage"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved accounts with their usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			names, err := a.store.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("(no accounts saved yet)")
				return nil
			}

			c, err := a.openCache()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			results := a.resolver(c).Resolve(cmd.Context(), names)
			current := a.state.Load().Current
			now := time.Now()

			for _, name := range names {
				marker := "-"
				if current != "" && name == current {
					marker = "*"
				}
				fmt.Printf(" %s %s\n", marker, name)
				fmt.Println("  Usage:")

				rec := results[name]
				if !rec.OK {
					fmt.Println("    (unavailable)")
					continue
				}

				var lines []string
				if line := usage.FormatWindow(rec.Rolling, "5h", now); line != "" {
					lines = append(lines, line)
				}
				if line := usage.FormatWindow(rec.Weekly, "weekly", now); line != "" {
					lines = append(lines, line)
				}
				if len(lines) == 0 {
					fmt.Println("    (unavailable)")
					continue
				}
				for _, line := range lines {
					fmt.Printf("    %s\n", line)
				}
			}
			return nil
		},
	}
}
