// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the assistant's answer pipeline and chat history as tools over
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/assistant"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *assistant.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *assistant.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("web_answer",
		mcp.WithDescription("Answer a question using web search with inline [n] citations. "+
			"The exchange is appended to the current chat so follow-up questions keep context."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language question")),
	), s.webAnswer)

	s.mcp.AddTool(mcp.NewTool("list_chats",
		mcp.WithDescription("List all stored conversations with their titles and message counts."),
	), s.listChats)

	s.mcp.AddTool(mcp.NewTool("read_chat",
		mcp.WithDescription("Read the full message history of one conversation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Chat identifier")),
	), s.readChat)

	s.mcp.AddTool(mcp.NewTool("new_chat",
		mcp.WithDescription("Start a new conversation and make it current."),
		mcp.WithString("first_query", mcp.Description("Optional hint used for the placeholder title")),
	), s.newChat)

	s.mcp.AddTool(mcp.NewTool("clear_chats",
		mcp.WithDescription("Delete all stored conversations and erase the durable history."),
	), s.clearChats)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) webAnswer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := s.svc.Ask(ctx, query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listChats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type item struct {
		ID           string `json:"id"`
		Title        string `json:"title"`
		MessageCount int    `json:"message_count"`
	}
	chats := s.svc.Chats()
	items := make([]item, len(chats))
	for i, c := range chats {
		items[i] = item{ID: c.ID, Title: c.Title, MessageCount: len(c.Messages)}
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readChat(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chat, err := s.svc.Chat(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(chat, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) newChat(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hint := ""
	if v, err := req.RequireString("first_query"); err == nil {
		hint = v
	}
	id := s.svc.CreateChat(hint)
	return mcp.NewToolResultText(fmt.Sprintf(`{"id": %q}`, id)), nil
}

func (s *Server) clearChats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.svc.ClearAll()
	return mcp.NewToolResultText("all chats cleared"), nil
}
