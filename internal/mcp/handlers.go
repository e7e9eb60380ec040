package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

func (s *Server) handleAskSubject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := request.RequireString("subject")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: subject"), nil
	}
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	answer, err := s.svc.Answer(ctx, subject, question)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(answer), nil
}

func (s *Server) handleSearchPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := request.RequireString("subject")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: subject"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	results, err := s.svc.Retrieve(ctx, subject, query)
	if err != nil {
		return toolError(err), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No passages found for %q. Ingest a document with `flashlearn ingest` first.", subject)), nil
	}
	return mcp.NewToolResultText(vectordb.FormatResults(results)), nil
}

func (s *Server) handleListSubjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects, err := s.svc.Subjects(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if len(subjects) == 0 {
		return mcp.NewToolResultText("No subjects yet. Ingest a document with `flashlearn ingest` first."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d subject(s):\n", len(subjects))
	for _, sub := range subjects {
		fmt.Fprintf(&sb, "\n## %s\n%d quiz items, %d flashcards, updated %s\n\n%s\n",
			sub.Name, len(sub.Quiz), len(sub.Flashcards),
			sub.UpdatedAt.Format("2006-01-02 15:04"), sub.Summary)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetSubject returns the bundle as JSON so agents can build quizzes
// from it.
func (s *Server) handleGetSubject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := request.RequireString("subject")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: subject"), nil
	}

	entry, err := s.svc.Subject(ctx, subject)
	if err != nil {
		return toolError(err), nil
	}
	out, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding subject: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", apperr.PublicMessage(err), apperr.KindOf(err)))
}
