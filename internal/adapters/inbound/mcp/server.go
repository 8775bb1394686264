package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewAuditMCPServer creates a new MCP server with the jaraudit tools
// registered. The projectPath is the root directory of the project whose
// dependencies are audited.
func NewAuditMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"jaraudit",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
