package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/flashlearn/internal/db"
	"github.com/ziadkadry99/flashlearn/internal/ledger"
	"github.com/ziadkadry99/flashlearn/internal/llm"
	"github.com/ziadkadry99/flashlearn/internal/rag"
	"github.com/ziadkadry99/flashlearn/internal/vectordb"
)

// mockEmbedder implements embeddings.Embedder for testing.
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = []float32{1, float32(len(text) % 7), 0.5}
	}
	return result, nil
}
func (m *mockEmbedder) Dimensions() int { return 3 }
func (m *mockEmbedder) Name() string    { return "mock" }

// mockProvider implements llm.Provider for testing.
type mockProvider struct{}

const bundleJSON = `{"summary":"Cells are the basic unit of life.",` +
	`"quiz":[{"question":"What is a cell?","options":["a","b","c","d"],"answer":"a"}],` +
	`"flashcards":[{"term":"cell","definition":"unit of life"}]}`

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if req.JSONMode {
		return &llm.CompletionResponse{Content: bundleJSON}, nil
	}
	return &llm.CompletionResponse{Content: "A cell is the unit of life."}, nil
}
func (m *mockProvider) Name() string { return "mock" }

func newTestServer(t *testing.T, ingest bool) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	emb := &mockEmbedder{}
	idx, err := vectordb.NewChromemIndex(emb, 3, "")
	if err != nil {
		t.Fatalf("NewChromemIndex: %v", err)
	}
	svc := rag.NewService(idx, ledger.NewStore(database), emb, &mockProvider{}, rag.Options{})
	if ingest {
		if _, err := svc.Ingest(context.Background(), "Biology", "Cells divide by mitosis."); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}
	return NewServer(svc, "test")
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String(), result.IsError
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{askSubjectTool, "ask_subject"},
		{searchPassagesTool, "search_passages"},
		{listSubjectsTool, "list_subjects"},
		{getSubjectTool, "get_subject"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t, false)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.svc == nil {
		t.Error("service not set")
	}
}

func TestHandleAskSubject(t *testing.T) {
	srv := newTestServer(t, true)

	t.Run("answer", func(t *testing.T) {
		text, isErr := call(t, srv.handleAskSubject, map[string]any{"subject": "Biology", "question": "What is a cell?"})
		if isErr {
			t.Fatalf("unexpected tool error: %s", text)
		}
		if text != "A cell is the unit of life." {
			t.Errorf("answer = %q", text)
		}
	})

	t.Run("unknown subject", func(t *testing.T) {
		text, isErr := call(t, srv.handleAskSubject, map[string]any{"subject": "Physics", "question": "What is force?"})
		if isErr {
			t.Fatalf("unexpected tool error: %s", text)
		}
		if text != rag.NoInformationAnswer {
			t.Errorf("answer = %q, want fallback", text)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		_, isErr := call(t, srv.handleAskSubject, map[string]any{"subject": "Biology"})
		if !isErr {
			t.Error("expected error for missing question")
		}
	})

	t.Run("blank question", func(t *testing.T) {
		text, isErr := call(t, srv.handleAskSubject, map[string]any{"subject": "Biology", "question": "  "})
		if !isErr {
			t.Fatal("expected error for blank question")
		}
		if !strings.Contains(text, "invalid_input") {
			t.Errorf("error text = %q, want kind", text)
		}
	})
}

func TestHandleSearchPassages(t *testing.T) {
	srv := newTestServer(t, true)

	text, isErr := call(t, srv.handleSearchPassages, map[string]any{"subject": "Biology", "query": "mitosis"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "Cells divide by mitosis.") {
		t.Errorf("expected passage text, got %q", text)
	}

	text, isErr = call(t, srv.handleSearchPassages, map[string]any{"subject": "Physics", "query": "force"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "No passages found") {
		t.Errorf("expected empty message, got %q", text)
	}
}

func TestHandleListSubjects(t *testing.T) {
	text, _ := call(t, newTestServer(t, false).handleListSubjects, nil)
	if !strings.Contains(text, "No subjects yet") {
		t.Errorf("expected empty message, got %q", text)
	}

	text, isErr := call(t, newTestServer(t, true).handleListSubjects, nil)
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "## Biology") || !strings.Contains(text, "1 quiz items, 1 flashcards") {
		t.Errorf("unexpected listing %q", text)
	}
}

func TestHandleGetSubject(t *testing.T) {
	srv := newTestServer(t, true)

	text, isErr := call(t, srv.handleGetSubject, map[string]any{"subject": "Biology"})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, `"summary": "Cells are the basic unit of life."`) {
		t.Errorf("expected summary in JSON, got %q", text)
	}

	text, isErr = call(t, srv.handleGetSubject, map[string]any{"subject": "Physics"})
	if !isErr {
		t.Fatal("expected error for unknown subject")
	}
	if !strings.Contains(text, "subject_not_found") {
		t.Errorf("error text = %q", text)
	}
}
