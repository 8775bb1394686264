package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miivari/jaraudit/internal/adapters/outbound/history"
)

func newHistoryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past audit outcomes for this project",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := history.New().Load(path)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no audit history")
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}
