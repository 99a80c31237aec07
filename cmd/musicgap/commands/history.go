package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmls/musicgap/internal/history"
)

var historySession string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "查看各音程的历史正确率",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.IntervalStats(historySession)
		if err != nil {
			return err
		}
		sessions, err := store.SessionCount()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderStats(stats, sessions))
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySession, "session", "", "只统计指定练习 (session id)")
}
