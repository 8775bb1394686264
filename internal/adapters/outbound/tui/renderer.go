package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"
	"github.com/miivari/jaraudit/internal/domain"
)

// ── Claude-inspired warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	skipped = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	passStyle    = lipgloss.NewStyle().Bold(true).Foreground(success)
	failStyle    = lipgloss.NewStyle().Bold(true).Foreground(danger)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	skipStyle    = lipgloss.NewStyle().Bold(true).Foreground(skipped)
	classStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	bulletStyle  = lipgloss.NewStyle().Foreground(danger)
)

// RenderAuditReport renders an AuditReport as a styled TUI string. The
// machine-stable report text is AuditReport.Text; this view is for humans.
func RenderAuditReport(report *domain.AuditReport) string {
	var b strings.Builder

	title := headerStyle.Render("jaraudit")
	subtitle := dimStyle.Render("Third-Party Dependency Audit")
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdictLine(report)))
	b.WriteString("\n")

	renderCollisions(&b, report)
	renderViolations(&b, report)
	renderMissing(&b, report)

	if report.CommitHash != "" {
		b.WriteString("\n  " + faintStyle.Render("commit "+report.CommitHash) + "\n")
	}
	return b.String()
}

func verdictLine(report *domain.AuditReport) string {
	switch report.Verdict {
	case domain.VerdictPassed:
		return passStyle.Render("PASSED")
	case domain.VerdictSkipped:
		return skipStyle.Render("SKIPPED") + "  " + dimStyle.Render("no applicable dependencies")
	default:
		return failStyle.Render("FAILED") + "  " + warnStyle.Render(humanizeReason(report.Reason))
	}
}

// humanizeReason turns a reason tag like "ViolationsFound" into "Violations
// Found" for display. The raw tag stays stable for scripting.
func humanizeReason(reason domain.Reason) string {
	return strings.Join(camelcase.Split(string(reason)), " ")
}

func renderCollisions(b *strings.Builder, report *domain.AuditReport) {
	if len(report.Collisions) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  %s %s\n",
		sectionStyle.Render("Platform Collisions"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(report.Collisions))),
	)
	for _, c := range report.Collisions {
		fmt.Fprintf(b, "    %s %s  %s\n",
			bulletStyle.Render("●"), classStyle.Render(c.Class), dimStyle.Render(c.Archive))
	}
	if report.ToolFailure != "" {
		b.WriteString("    " + warnStyle.Render(report.ToolFailure) + "\n")
	}
}

func renderViolations(b *strings.Builder, report *domain.AuditReport) {
	if len(report.Violations) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  %s %s\n",
		sectionStyle.Render("Forbidden API Violations"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(report.Violations))),
	)
	lastClass := ""
	for _, v := range domain.GroupViolations(report.Violations) {
		if v.Class != lastClass {
			fmt.Fprintf(b, "    %s\n", classStyle.Render(v.Class))
			lastClass = v.Class
		}
		target := v.Target
		if v.Member != "" {
			target += "#" + v.Member
		}
		fmt.Fprintf(b, "      %s %s  %s\n",
			bulletStyle.Render("●"), target, dimStyle.Render(v.Message))
		location := "in method " + v.Method
		if v.DefinedIn != "" {
			location += ", target from " + v.DefinedIn
		}
		fmt.Fprintf(b, "        %s\n", faintStyle.Render(location))
	}
}

func renderMissing(b *strings.Builder, report *domain.AuditReport) {
	if len(report.MissingClasses) == 0 {
		return
	}
	fmt.Fprintf(b, "\n  %s %s\n",
		sectionStyle.Render("Missing Classes"),
		dimStyle.Render(fmt.Sprintf("(%d)", len(report.MissingClasses))),
	)
	for _, name := range report.MissingClassNames() {
		fmt.Fprintf(b, "    %s %s\n", warnStyle.Render("●"), name)
	}
}
