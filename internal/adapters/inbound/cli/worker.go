package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miivari/jaraudit/internal/adapters/outbound/archive"
	"github.com/miivari/jaraudit/internal/adapters/outbound/jarhell"
	"github.com/miivari/jaraudit/internal/domain/platform"
)

// newWorkerCmd is the hidden in-process side of the platform-collision check.
// The audit spawns this command in a child process so class identity checks
// never share state with the host run.
func newWorkerCmd() *cobra.Command {
	var (
		jars      []string
		classList string
	)

	cmd := &cobra.Command{
		Use:    "jarhell-worker",
		Hidden: true,
		Short:  "Internal: check archives for platform class collisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := parseArchiveSpecs(jars)
			if err != nil {
				return err
			}

			catalog, err := workerCatalog(classList)
			if err != nil {
				return err
			}

			count, err := jarhell.Run(cmd.OutOrStdout(), archive.New(), catalog, refs)
			if err != nil {
				return err
			}
			if count > 0 {
				// Non-zero exit with a framed payload: collisions, not a crash.
				return fmt.Errorf("%d platform class collision(s)", count)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&jars, "jar", nil, "Archive to check, as coordinate=path (repeatable)")
	cmd.Flags().StringVar(&classList, "platform-classlist", "", "File listing extra platform class names")

	return cmd
}

func workerCatalog(classList string) (*platform.Catalog, error) {
	if classList == "" {
		return platform.NewCatalog(), nil
	}
	return platform.NewCatalogFromFile(classList)
}
