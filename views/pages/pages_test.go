package pages

import (
	"bytes"
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapi/views/models"
)

func TestHomePage_Pager(t *testing.T) {
	v := models.ListView{
		Notes:      []models.NoteView{{ID: "abc", Title: "T", Priority: "low", HTML: "<p>hi</p>"}},
		Page:       2,
		TotalPages: 3,
		TotalNotes: 25,
		Query:      url.Values{"priority": {"low"}},
	}

	var buf bytes.Buffer
	require.NoError(t, HomePage(v).Render(context.Background(), &buf))
	out := buf.String()

	assert.Contains(t, out, "25 notes")
	assert.Contains(t, out, "<p>hi</p>")
	assert.Contains(t, out, `href="/?page=1&amp;priority=low"`)
	assert.Contains(t, out, `href="/?page=3&amp;priority=low"`)
	assert.Contains(t, out, "Page 2 of 3")
}

func TestHomePage_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HomePage(models.ListView{Page: 1}).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "No notes found.")
}

func TestNoteCard_Archived(t *testing.T) {
	var buf bytes.Buffer
	n := models.NoteView{ID: "x", Title: "t", Priority: "high", IsArchived: true}
	require.NoError(t, NoteCard(n).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `data-priority="high" data-archived>`)

	buf.Reset()
	n.IsArchived = false
	n.Title = `<script>x</script>`
	require.NoError(t, NoteCard(n).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "data-archived")
	assert.Contains(t, buf.String(), "&lt;script&gt;x&lt;/script&gt;")
}

func TestNoteCard_Tags(t *testing.T) {
	var buf bytes.Buffer
	n := models.NoteView{ID: "x", Title: "t", Priority: "low", Tags: []string{"a&b", "c"}}
	require.NoError(t, NoteCard(n).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `<ul class="tags"><li>a&amp;b</li><li>c</li></ul>`)
	assert.Contains(t, buf.String(), `<a href="/notes/x">t</a>`)
}

func TestPageURL(t *testing.T) {
	q := url.Values{"search": {"go"}, "page": {"9"}}
	assert.Equal(t, "/?page=2&search=go", pageURL(q, 2))
	assert.Equal(t, []string{"9"}, q["page"])
}
