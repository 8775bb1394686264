package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/miivari/jaraudit/internal/adapters/outbound/archive"
	"github.com/miivari/jaraudit/internal/adapters/outbound/config"
	"github.com/miivari/jaraudit/internal/adapters/outbound/gitinfo"
	"github.com/miivari/jaraudit/internal/adapters/outbound/history"
	"github.com/miivari/jaraudit/internal/adapters/outbound/jarhell"
	"github.com/miivari/jaraudit/internal/application"
	"github.com/miivari/jaraudit/internal/domain"
	"github.com/miivari/jaraudit/internal/domain/classpath"
	"github.com/miivari/jaraudit/internal/domain/rules"
)

// registerTools registers the jaraudit MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. jaraudit_audit
	s.AddTool(
		mcplib.NewTool("jaraudit_audit",
			mcplib.WithDescription("Audit third-party dependency archives for forbidden API use, missing classes, and platform collisions. Returns the full audit report as JSON."),
			mcplib.WithString("scan",
				mcplib.Required(),
				mcplib.Description("Comma-separated runtime archives to analyze, each as coordinate=path"),
			),
			mcplib.WithString("context",
				mcplib.Description("Comma-separated compile-only archives kept for resolution, each as coordinate=path"),
			),
			mcplib.WithString("jarhell",
				mcplib.Description("Comma-separated archives checked for platform collisions, each as coordinate=path"),
			),
			mcplib.WithString("rules",
				mcplib.Description("Signature rule file path (overrides project config)"),
			),
		),
		handleAudit(projectPath),
	)

	// 2. jaraudit_lint_rules
	s.AddTool(
		mcplib.NewTool("jaraudit_lint_rules",
			mcplib.WithDescription("Check a signature rule file for syntax errors. Returns the first malformed line, if any."),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the signature rule file"),
			),
		),
		handleLintRules(),
	)

	// 3. jaraudit_history
	s.AddTool(
		mcplib.NewTool("jaraudit_history",
			mcplib.WithDescription("Returns past audit outcomes for the project as JSON"),
		),
		handleHistory(projectPath),
	)
}

func handleAudit(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		scanSpecs, err := request.RequireString("scan")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		contextSpecs, _ := args["context"].(string)
		jarhellSpecs, _ := args["jarhell"].(string)

		sets, err := parseSets(scanSpecs, contextSpecs, jarhellSpecs)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		if rulesFile, _ := args["rules"].(string); rulesFile != "" {
			cfg.RulesFile = rulesFile
		}

		checker := jarhell.New()
		checker.PlatformClassList = cfg.PlatformClassList

		svc := application.NewAuditService(
			archive.New(),
			checker,
			gitinfo.New(),
			history.New(),
		)

		report, err := svc.Audit(ctx, application.AuditRequest{
			ProjectPath: projectPath,
			RulesPath:   cfg.RulesFile,
			Sets:        sets,
			Config:      cfg,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleLintRules() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		set, err := rules.ParseFile(file)
		if err != nil {
			var malformed *rules.MalformedRuleFileError
			if errors.As(err, &malformed) {
				return errorResult(malformed.Error()), nil
			}
			return errorResult(fmt.Sprintf("lint failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("OK: %d rule(s)", len(set.Rules))), nil
	}
}

func handleHistory(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := history.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading history: %v", err)), nil
		}
		return jsonResult(entries)
	}
}

// parseSets turns comma-separated coordinate=path lists into the declared
// dependency sets.
func parseSets(scan, contextJars, jarHell string) (classpath.Sets, error) {
	var sets classpath.Sets
	var err error
	if sets.Runtime, err = parseArchiveSpecs(scan); err != nil {
		return classpath.Sets{}, err
	}
	if sets.CompileOnly, err = parseArchiveSpecs(contextJars); err != nil {
		return classpath.Sets{}, err
	}
	if sets.JarHell, err = parseArchiveSpecs(jarHell); err != nil {
		return classpath.Sets{}, err
	}
	return sets, nil
}

func parseArchiveSpecs(specs string) ([]domain.ArchiveRef, error) {
	var refs []domain.ArchiveRef
	for _, spec := range strings.Split(specs, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
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

func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
