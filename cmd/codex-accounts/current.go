package main

import (
	"fmt"
	"time"

	"github.com/jeremyhon/codex-cli-account-switcher/pkg/usage"
	"github.com/spf13/cobra"
)

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the current account and its usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			st := a.state.Load()
			if st.Current != "" {
				fmt.Printf("Current:  %s\n", st.Current)
			} else {
				fmt.Println("Current:  (unknown, no state recorded yet)")
			}
			if st.Previous != "" {
				fmt.Printf("Previous: %s\n", st.Previous)
			}

			if st.Current != "" {
				fmt.Printf("Usage (current: %s):\n", st.Current)
			} else {
				fmt.Println("Usage (auth.json):")
			}

			rec := a.fetcher().FetchFile(cmd.Context(), a.store.LiveAuthPath())
			for _, line := range usage.Lines(rec, time.Now()) {
				fmt.Printf("  %s\n", line)
			}
			return nil
		},
	}
}
