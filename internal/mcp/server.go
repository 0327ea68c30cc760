package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"notesapi/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server with tools for note operations
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Notes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - Filtered, sorted, paginated listing
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes with pagination. Filters by priority and archive state, or runs a free-text search that replaces those filters and only covers non-archived notes."),
			mcp.WithNumber("page",
				mcp.Description("Page number (default: 1)"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Notes per page (default: 10)"),
			),
			mcp.WithString("priority",
				mcp.Description("Optional: low, medium or high"),
				mcp.Enum("low", "medium", "high"),
			),
			mcp.WithBoolean("archived",
				mcp.Description("List archived notes instead of active ones (default: false)"),
			),
			mcp.WithString("search",
				mcp.Description("Optional: case-insensitive term matched against title, content and tags"),
			),
			mcp.WithString("sort_by",
				mcp.Description("Sort field (default: createdAt)"),
			),
			mcp.WithString("sort_order",
				mcp.Description("asc or desc (default: desc)"),
				mcp.Enum("asc", "desc"),
			),
		),
		handleListNotes(svc),
	)

	// Tool: get_note - Get a specific note by ID
	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID. Use this when you have a note ID and need the full content."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleGetNote(svc),
	)

	// Tool: search_notes - Substring search over active notes
	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Search non-archived notes whose title, content or tags contain the term (case-insensitive)."),
			mcp.WithString("term",
				mcp.Required(),
				mcp.Description("Search term"),
			),
		),
		handleSearchNotes(svc),
	)

	// Tool: get_notes_by_priority
	s.AddTool(
		mcp.NewTool("get_notes_by_priority",
			mcp.WithDescription("Get all non-archived notes with the given priority."),
			mcp.WithString("priority",
				mcp.Required(),
				mcp.Enum("low", "medium", "high"),
			),
		),
		handleNotesByPriority(svc),
	)

	// Tool: create_note
	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a new note."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Title, at most 100 characters"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Markdown content, at most 5000 characters"),
			),
			mcp.WithArray("tags",
				mcp.Description("Optional tags, each at most 30 characters"),
				mcp.WithStringItems(),
			),
			mcp.WithString("priority",
				mcp.Description("low, medium or high (default: medium)"),
				mcp.Enum("low", "medium", "high"),
			),
		),
		handleCreateNote(svc),
	)

	// Tool: toggle_archive
	s.AddTool(
		mcp.NewTool("toggle_archive",
			mcp.WithDescription("Archive an active note or restore an archived one."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleToggleArchive(svc),
	)

	return s
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := notes.ListQuery{
			Page:      req.GetInt("page", notes.DefaultPage),
			Limit:     req.GetInt("limit", notes.DefaultLimit),
			Priority:  notes.Priority(req.GetString("priority", "")),
			Search:    req.GetString("search", ""),
			SortBy:    req.GetString("sort_by", ""),
			SortOrder: req.GetString("sort_order", ""),
		}
		if q.Priority != "" && !q.Priority.Valid() {
			return mcp.NewToolResultError("priority must be low, medium, or high"), nil
		}
		if req.GetBool("archived", false) {
			q.Archived = "true"
		}

		result, err := svc.List(ctx, q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.GetByID(ctx, id)
		if err != nil {
			return toolError("failed to get note", err), nil
		}
		return jsonResult(note)
	}
}

func handleSearchNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term, err := req.RequireString("term")
		if err != nil {
			return mcp.NewToolResultError("term is required"), nil
		}

		noteList, err := svc.Search(ctx, term)
		if err != nil {
			return toolError("failed to search notes", err), nil
		}
		return jsonResult(noteList)
	}
}

func handleNotesByPriority(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		priority, err := req.RequireString("priority")
		if err != nil {
			return mcp.NewToolResultError("priority is required"), nil
		}

		noteList, err := svc.ByPriority(ctx, priority)
		if err != nil {
			return toolError("failed to get notes", err), nil
		}
		return jsonResult(noteList)
	}
}

func handleCreateNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError("title is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcp.NewToolResultError("content is required"), nil
		}

		note, err := svc.Create(ctx, notes.CreateNoteInput{
			Title:    title,
			Content:  content,
			Tags:     req.GetStringSlice("tags", nil),
			Priority: notes.Priority(req.GetString("priority", "")),
		})
		if err != nil {
			return toolError("failed to create note", err), nil
		}
		return jsonResult(note)
	}
}

func handleToggleArchive(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.ToggleArchive(ctx, id)
		if err != nil {
			return toolError("failed to toggle archive", err), nil
		}
		return jsonResult(note)
	}
}

// Helper functions

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(prefix string, err error) *mcp.CallToolResult {
	if errors.Is(err, notes.ErrNoteNotFound) {
		return mcp.NewToolResultError("note not found")
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}
