package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miivari/jaraudit/internal/domain/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Signature rule file commands",
	}
	cmd.AddCommand(newRulesLintCmd())
	return cmd
}

func newRulesLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file>",
		Short: "Check a signature rule file for syntax errors",
		Long: "Parse a signature rule file and report the first malformed line. " +
			"A file that lints clean cannot abort an audit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := rules.ParseFile(args[0])
			if err != nil {
				var malformed *rules.MalformedRuleFileError
				if errors.As(err, &malformed) {
					return fmt.Errorf("lint failed: %w", malformed)
				}
				return err
			}
			if set.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "OK: file defines no rules")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d rule(s)\n", len(set.Rules))
			return nil
		},
	}
}
