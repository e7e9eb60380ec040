package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/flashlearn/internal/rag"
)

// Server wraps an MCP server that exposes the study subjects to agents.
type Server struct {
	svc *rag.Service
	mcp *server.MCPServer
}

// NewServer creates an MCP server backed by svc, advertising version.
func NewServer(svc *rag.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"flashlearn",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askSubjectTool, s.handleAskSubject)
	s.mcp.AddTool(searchPassagesTool, s.handleSearchPassages)
	s.mcp.AddTool(listSubjectsTool, s.handleListSubjects)
	s.mcp.AddTool(getSubjectTool, s.handleGetSubject)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
