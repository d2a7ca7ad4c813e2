package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/assistant"
	"github.com/starford/ansuz/internal/chatstore"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
)

type fakeAnswerer struct {
	resp *models.SearchResponse
	err  error
}

func (f *fakeAnswerer) Answer(_ context.Context, query string, _ []models.Turn) (*models.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	r := *f.resp
	r.Query = query
	return &r, nil
}

type staticTitles struct{}

func (staticTitles) Title(context.Context, string) (string, error) { return "Test title", nil }

func testServer(t *testing.T, orch assistant.Answerer) (*Server, *chatstore.Store) {
	t.Helper()
	store := chatstore.New(&testutil.MemSlot{}, staticTitles{}, nil)
	t.Cleanup(store.Wait)
	svc := assistant.NewService(orch, store)
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so the handler
	// functions are called directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "web_answer":
		result, err = srv.webAnswer(ctx, req)
	case "list_chats":
		result, err = srv.listChats(ctx, req)
	case "read_chat":
		result, err = srv.readChat(ctx, req)
	case "new_chat":
		result, err = srv.newChat(ctx, req)
	case "clear_chats":
		result, err = srv.clearChats(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestWebAnswer(t *testing.T) {
	srv, store := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{
		Answer:  "Go is a language [1].",
		Sources: []models.Source{{Title: "Go", URL: "https://go.dev"}},
	}})

	r := callTool(t, srv, "web_answer", map[string]interface{}{"query": "what is go"})
	if r.IsError {
		t.Fatalf("web_answer errored: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "Go is a language [1].") {
		t.Errorf("result missing answer: %q", text)
	}

	store.Wait()
	cur := store.CurrentChat()
	if cur == nil || len(cur.Messages) != 1 {
		t.Error("exchange not recorded in current chat")
	}
}

func TestWebAnswer_MissingQuery(t *testing.T) {
	srv, _ := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{}})
	r := callTool(t, srv, "web_answer", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query argument")
	}
}

func TestNewChatAndList(t *testing.T) {
	srv, _ := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{}})

	r := callTool(t, srv, "new_chat", map[string]interface{}{"first_query": "go generics"})
	if r.IsError {
		t.Fatalf("new_chat errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"id"`) {
		t.Errorf("new_chat result = %q", resultText(r))
	}

	r = callTool(t, srv, "list_chats", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "go generics") {
		t.Errorf("list missing hinted title: %q", text)
	}
}

func TestReadChat(t *testing.T) {
	srv, store := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{}})
	id := store.CreateChat("topic")

	r := callTool(t, srv, "read_chat", map[string]interface{}{"id": id})
	if r.IsError {
		t.Fatalf("read_chat errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), id) {
		t.Errorf("read_chat result missing id: %q", resultText(r))
	}
}

func TestReadChatMissing(t *testing.T) {
	srv, _ := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{}})
	r := callTool(t, srv, "read_chat", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing chat")
	}
}

func TestClearChats(t *testing.T) {
	srv, store := testServer(t, &fakeAnswerer{resp: &models.SearchResponse{}})
	store.CreateChat("")
	store.CreateChat("")

	r := callTool(t, srv, "clear_chats", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("clear_chats errored: %s", resultText(r))
	}
	if len(store.Chats()) != 0 {
		t.Error("chats remain after clear")
	}
}
