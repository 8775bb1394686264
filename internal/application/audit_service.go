package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/classpath"
	"github.com/miivari/jaraudit/internal/domain/platform"
	"github.com/miivari/jaraudit/internal/domain/rules"
	"github.com/miivari/jaraudit/internal/domain/scan"
)

// AuditRequest carries one audit invocation's resolved inputs.
type AuditRequest struct {
	ProjectPath string
	RulesPath   string
	Sets        classpath.Sets
	Config      domain.AuditConfig
}

// AuditService orchestrates the audit pipeline:
// partition -> parse rules -> {scan, collision check} -> aggregate.
type AuditService struct {
	loader  domain.ArchiveLoader
	checker domain.CollisionChecker
	git     domain.GitInfo
	history domain.AuditHistory

	phase domain.Phase
}

func NewAuditService(
	loader domain.ArchiveLoader,
	checker domain.CollisionChecker,
	git domain.GitInfo,
	history domain.AuditHistory,
) *AuditService {
	return &AuditService{
		loader:  loader,
		checker: checker,
		git:     git,
		history: history,
		phase:   domain.PhaseIdle,
	}
}

// Phase returns the last phase the service reached. Not for concurrent use.
func (s *AuditService) Phase() domain.Phase { return s.phase }

// Audit runs one complete audit. Verdict-bearing outcomes, including
// MalformedRuleFile and ToolCrashed, come back as a report with a nil error;
// a non-nil error means the audit could not complete at all (unreadable
// inputs, corrupt archives).
func (s *AuditService) Audit(ctx context.Context, req AuditRequest) (*domain.AuditReport, error) {
	s.phase = domain.PhasePartitioning
	partition := classpath.PartitionSets(req.Sets, req.Config)

	if partition.NoWork() {
		s.phase = domain.PhaseDone
		return s.finish(req, &domain.AuditReport{Verdict: domain.VerdictSkipped}), nil
	}

	// A malformed rule file aborts before any scanning starts.
	ruleSet, err := rules.ParseFile(req.RulesPath)
	if err != nil {
		var malformed *rules.MalformedRuleFileError
		if errors.As(err, &malformed) {
			s.phase = domain.PhaseDone
			return s.finish(req, &domain.AuditReport{
				Verdict:     domain.VerdictFailed,
				Reason:      domain.ReasonMalformedRuleFile,
				ToolFailure: malformed.Error(),
			}), nil
		}
		return nil, err
	}

	catalog, err := s.platformCatalog(req.Config)
	if err != nil {
		return nil, err
	}

	s.phase = domain.PhaseAnalyzing
	var (
		scanRes    scan.Result
		collisions []domain.CollisionEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.runScanner(partition, catalog, ruleSet)
		if err != nil {
			return err
		}
		scanRes = res
		return nil
	})
	g.Go(func() error {
		if len(partition.JarHell) == 0 {
			return nil
		}
		found, err := s.checker.Check(gctx, partition.JarHell)
		if err != nil {
			return err
		}
		collisions = found
		return nil
	})
	if err := g.Wait(); err != nil {
		var crashed *domain.ToolCrashedError
		if errors.As(err, &crashed) {
			s.phase = domain.PhaseDone
			return s.finish(req, &domain.AuditReport{
				Verdict:     domain.VerdictFailed,
				Reason:      domain.ReasonToolCrashed,
				ToolFailure: crashed.Error(),
			}), nil
		}
		return nil, err
	}

	s.phase = domain.PhaseAggregating
	report := aggregate(scanRes, collisions, req.Config)
	s.phase = domain.PhaseDone
	return s.finish(req, report), nil
}

// runScanner loads the analyzed archives, builds the resolution index over
// the full classpath, and scans every class unit.
func (s *AuditService) runScanner(
	partition classpath.Partition,
	catalog *platform.Catalog,
	ruleSet *rules.RuleSet,
) (scan.Result, error) {
	index := classpath.NewIndex(catalog)
	var units []domain.ClassUnit

	for _, ref := range partition.Analyze {
		la, err := s.loader.Load(ref)
		if err != nil {
			return scan.Result{}, err
		}
		index.AddArchive(la)
		units = append(units, la.Classes...)
	}
	for _, ref := range partition.Context {
		la, err := s.loader.ListClasses(ref)
		if err != nil {
			return scan.Result{}, err
		}
		index.AddArchive(la)
	}

	return scan.Scan(units, index, ruleSet), nil
}

func (s *AuditService) platformCatalog(cfg domain.AuditConfig) (*platform.Catalog, error) {
	if cfg.PlatformClassList == "" {
		return platform.NewCatalog(), nil
	}
	return platform.NewCatalogFromFile(cfg.PlatformClassList)
}

// aggregate computes the verdict. A platform collision is always fatal and
// outranks everything else; missing classes fail unless downgraded.
func aggregate(scanRes scan.Result, collisions []domain.CollisionEntry, cfg domain.AuditConfig) *domain.AuditReport {
	report := &domain.AuditReport{
		Verdict:        domain.VerdictPassed,
		Violations:     scanRes.Violations,
		MissingClasses: scanRes.Missing,
		Collisions:     collisions,
	}

	switch {
	case len(collisions) > 0:
		report.Verdict = domain.VerdictFailed
		report.Reason = domain.ReasonPlatformCollision
		report.ToolFailure = fmt.Sprintf(
			"isolated collision check found %d class(es) shadowing platform classes", len(collisions))
	case len(scanRes.Violations) > 0:
		report.Verdict = domain.VerdictFailed
		report.Reason = domain.ReasonViolationsFound
	case len(scanRes.Missing) > 0 && cfg.MissingClassesAreFatal():
		report.Verdict = domain.VerdictFailed
		report.Reason = domain.ReasonMissingClasses
	}
	return report
}

// finish stamps provenance and persists history. History is best-effort: a
// write failure never changes the verdict.
func (s *AuditService) finish(req AuditRequest, report *domain.AuditReport) *domain.AuditReport {
	report.Timestamp = time.Now().UTC()
	if s.git != nil && s.git.IsGitRepo(req.ProjectPath) {
		if hash, err := s.git.CommitHash(req.ProjectPath); err == nil {
			report.CommitHash = hash
		}
	}

	if s.history != nil && !req.Config.DisableHistory && report.Verdict != domain.VerdictSkipped {
		_ = s.history.Save(req.ProjectPath, domain.AuditEntry{
			Timestamp:      report.Timestamp,
			Verdict:        report.Verdict,
			Reason:         report.Reason,
			Violations:     len(report.Violations),
			MissingClasses: len(report.MissingClasses),
			Collisions:     len(report.Collisions),
			CommitHash:     report.CommitHash,
		})
	}
	return report
}
