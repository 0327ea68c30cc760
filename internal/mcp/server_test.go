package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"notesapi/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestTools_CreateListArchive(t *testing.T) {
	svc := notes.NewService(notes.NewMemStore())

	res := call(t, handleCreateNote(svc), map[string]any{
		"title":    "Plan",
		"content":  "ship it",
		"tags":     []any{"work"},
		"priority": "high",
	})
	require.False(t, res.IsError, text(t, res))

	var created struct {
		ID       string   `json:"id"`
		Tags     []string `json:"tags"`
		Priority string   `json:"priority"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &created))
	assert.Equal(t, []string{"work"}, created.Tags)
	assert.Equal(t, "high", created.Priority)

	res = call(t, handleListNotes(svc), map[string]any{"priority": "high"})
	require.False(t, res.IsError)
	var list notes.ListResult
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	assert.Equal(t, int64(1), list.Pagination.TotalNotes)

	res = call(t, handleToggleArchive(svc), map[string]any{"id": created.ID})
	require.False(t, res.IsError)

	res = call(t, handleListNotes(svc), map[string]any{"archived": true})
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	assert.Equal(t, int64(1), list.Pagination.TotalNotes)

	res = call(t, handleSearchNotes(svc), map[string]any{"term": "ship"})
	assert.JSONEq(t, "[]", text(t, res))
}

func TestTools_Errors(t *testing.T) {
	svc := notes.NewService(notes.NewMemStore())

	res := call(t, handleGetNote(svc), map[string]any{"id": "64b7f0c2a1b2c3d4e5f60718"})
	assert.True(t, res.IsError)
	assert.Equal(t, "note not found", text(t, res))

	res = call(t, handleGetNote(svc), map[string]any{})
	assert.True(t, res.IsError)

	res = call(t, handleListNotes(svc), map[string]any{"priority": "urgent"})
	assert.True(t, res.IsError)

	res = call(t, handleNotesByPriority(svc), map[string]any{"priority": "urgent"})
	assert.True(t, res.IsError)

	res = call(t, handleCreateNote(svc), map[string]any{"title": "  ", "content": "x"})
	assert.True(t, res.IsError)
}

func TestNewServer(t *testing.T) {
	s := NewServer(notes.NewService(notes.NewMemStore()))
	require.NotNil(t, s)
}
