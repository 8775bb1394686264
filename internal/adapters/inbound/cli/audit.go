package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miivari/jaraudit/internal/adapters/outbound/archive"
	"github.com/miivari/jaraudit/internal/adapters/outbound/config"
	"github.com/miivari/jaraudit/internal/adapters/outbound/gitinfo"
	"github.com/miivari/jaraudit/internal/adapters/outbound/history"
	"github.com/miivari/jaraudit/internal/adapters/outbound/jarhell"
	"github.com/miivari/jaraudit/internal/adapters/outbound/tui"
	"github.com/miivari/jaraudit/internal/application"
	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/classpath"
)

func newAuditCmd() *cobra.Command {
	var (
		scanJars    []string
		contextJars []string
		jarhellJars []string
		excludes    []string
		rulesFile   string
		missing     string
		jsonOutput  bool
		noHistory   bool
		path        string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit the declared dependency archives",
		Long: "Run the full audit over the declared dependency sets: forbidden-API " +
			"scan of runtime archives, reference resolution across the whole " +
			"classpath, and the isolated platform-collision check.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := parseSets(scanJars, contextJars, jarhellJars)
			if err != nil {
				return err
			}

			cfg, err := config.New().Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if len(excludes) > 0 {
				cfg.ExcludeGroups = append(cfg.ExcludeGroups, excludes...)
			}
			if missing != "" {
				cfg.MissingClasses = missing
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if rulesFile != "" {
				cfg.RulesFile = rulesFile
			}
			if noHistory {
				cfg.DisableHistory = true
			}
			cfg.PlatformClassList = resolvePath(path, cfg.PlatformClassList)

			checker := jarhell.New()
			checker.PlatformClassList = cfg.PlatformClassList

			svc := application.NewAuditService(
				archive.New(),
				checker,
				gitinfo.New(),
				history.New(),
			)

			report, err := svc.Audit(cmd.Context(), application.AuditRequest{
				ProjectPath: path,
				RulesPath:   resolvePath(path, cfg.RulesFile),
				Sets:        sets,
				Config:      cfg,
			})
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderAuditReport(report))
				if report.Verdict != domain.VerdictSkipped {
					fmt.Fprint(cmd.OutOrStdout(), "\n"+report.Text())
				}
			}

			if report.Verdict == domain.VerdictFailed {
				return fmt.Errorf("audit failed: %s", report.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&scanJars, "scan", nil, "Runtime archive to analyze, as coordinate=path (repeatable)")
	cmd.Flags().StringArrayVar(&contextJars, "context", nil, "Compile-only archive kept for resolution, as coordinate=path (repeatable)")
	cmd.Flags().StringArrayVar(&jarhellJars, "jarhell", nil, "Archive checked for platform collisions, as coordinate=path (repeatable)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "Coordinate group prefix exempt from analysis (repeatable)")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "Signature rule file (overrides config)")
	cmd.Flags().StringVar(&missing, "missing-classes", "", "Missing-class handling: fatal or warn")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this audit in the history")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}

// parseSets turns coordinate=path flag values into the declared dependency
// sets.
func parseSets(scan, context, jarHell []string) (classpath.Sets, error) {
	var sets classpath.Sets
	var err error
	if sets.Runtime, err = parseArchiveSpecs(scan); err != nil {
		return classpath.Sets{}, err
	}
	if sets.CompileOnly, err = parseArchiveSpecs(context); err != nil {
		return classpath.Sets{}, err
	}
	if sets.JarHell, err = parseArchiveSpecs(jarHell); err != nil {
		return classpath.Sets{}, err
	}
	return sets, nil
}

func parseArchiveSpecs(specs []string) ([]domain.ArchiveRef, error) {
	var refs []domain.ArchiveRef
	for _, spec := range specs {
		idx := strings.Index(spec, "=")
		if idx <= 0 || idx == len(spec)-1 {
			return nil, fmt.Errorf("invalid archive spec %q: want coordinate=path", spec)
		}
		refs = append(refs, domain.ArchiveRef{
			Coordinate: spec[:idx],
			Path:       spec[idx+1:],
		})
	}
	return refs, nil
}

func resolvePath(projectPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}
