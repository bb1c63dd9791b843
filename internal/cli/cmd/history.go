package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeine8/caffeine8/internal/config"
	"github.com/caffeine8/caffeine8/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent inhibitor state transitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Get()

		// Open without pruning so reads never rewrite the daemon's data.
		store, err := history.Open(cfg.History.Path, 0, 0)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		transitions, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if len(transitions) == 0 {
			fmt.Println("No transitions recorded yet.")
			return nil
		}

		for _, t := range transitions {
			fmt.Printf("%s  %-12s %-8s %s\n",
				t.At.Local().Format("2006-01-02 15:04:05"),
				t.State,
				activeWord(t.Active),
				t.Message,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of transitions to show")
	rootCmd.AddCommand(historyCmd)
}
