package notes

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func setupService(t *testing.T) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	return NewService(store, WithClock(stepClock())), store
}

func mustCreate(t *testing.T, svc *Service, in CreateNoteInput) *Note {
	t.Helper()
	n, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return n
}

func ids(notes []*Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID.Hex()
	}
	return out
}

func TestService_CreateThenGet(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	created := mustCreate(t, svc, CreateNoteInput{
		Title:    "A",
		Content:  "x",
		Tags:     []string{"one", "two"},
		Priority: PriorityHigh,
	})

	got, err := svc.GetByID(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "x", got.Content)
	assert.Equal(t, []string{"one", "two"}, got.Tags)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.False(t, got.IsArchived)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestService_PriorityScenario(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	n := mustCreate(t, svc, CreateNoteInput{Title: "A", Content: "x", Priority: PriorityHigh})

	res, err := svc.List(ctx, ListQuery{Priority: PriorityHigh, Archived: "false"})
	require.NoError(t, err)
	assert.Contains(t, ids(res.Notes), n.ID.Hex())

	res, err = svc.List(ctx, ListQuery{Priority: PriorityLow})
	require.NoError(t, err)
	assert.NotContains(t, ids(res.Notes), n.ID.Hex())
}

func TestService_ArchiveScenario(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	n := mustCreate(t, svc, CreateNoteInput{Title: "A", Content: "x"})
	toggled, err := svc.ToggleArchive(ctx, n.ID.Hex())
	require.NoError(t, err)
	assert.True(t, toggled.IsArchived)
	assert.True(t, toggled.UpdatedAt.After(toggled.CreatedAt))

	res, err := svc.List(ctx, ListQuery{Archived: "false"})
	require.NoError(t, err)
	assert.NotContains(t, ids(res.Notes), n.ID.Hex())

	res, err = svc.List(ctx, ListQuery{Archived: "true"})
	require.NoError(t, err)
	assert.Equal(t, []string{n.ID.Hex()}, ids(res.Notes))

	restored, err := svc.ToggleArchive(ctx, n.ID.Hex())
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)
}

func TestService_Pagination(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		mustCreate(t, svc, CreateNoteInput{Title: fmt.Sprintf("note %02d", i), Content: "body"})
	}

	res, err := svc.List(ctx, ListQuery{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Notes, 3)
	assert.Equal(t, Pagination{CurrentPage: 3, TotalPages: 3, TotalNotes: 23, NotesPerPage: 10}, res.Pagination)

	res, err = svc.List(ctx, ListQuery{Page: 999999})
	require.NoError(t, err)
	assert.Empty(t, res.Notes)
	assert.NotNil(t, res.Notes)
	assert.Equal(t, int64(23), res.Pagination.TotalNotes)

	for _, limit := range []int{3, 4} {
		res, err = svc.List(ctx, ListQuery{Page: 4611686018427387905, Limit: limit})
		require.NoError(t, err)
		assert.Empty(t, res.Notes, "limit=%d", limit)
		assert.Equal(t, int64(23), res.Pagination.TotalNotes)
	}

	res, err = svc.List(ctx, ListQuery{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, res.Notes, 23)
	assert.Equal(t, 1, res.Pagination.TotalPages)
}

func TestService_EmptyPagination(t *testing.T) {
	svc, _ := setupService(t)

	res, err := svc.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, res.Notes)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 0, TotalNotes: 0, NotesPerPage: 10}, res.Pagination)
}

func TestService_SortOrder(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, title := range []string{"banana", "apple", "cherry"} {
		mustCreate(t, svc, CreateNoteInput{Title: title, Content: "x"})
	}

	res, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, res.Notes, 3)
	for i := 1; i < len(res.Notes); i++ {
		assert.False(t, res.Notes[i-1].CreatedAt.Before(res.Notes[i].CreatedAt))
	}
	assert.Equal(t, "cherry", res.Notes[0].Title)

	res, err = svc.List(ctx, ListQuery{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"},
		[]string{res.Notes[0].Title, res.Notes[1].Title, res.Notes[2].Title})
}

func TestService_SearchOverridesFilters(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	low := mustCreate(t, svc, CreateNoteInput{Title: "Weekly Report", Content: "numbers", Priority: PriorityLow})
	tagged := mustCreate(t, svc, CreateNoteInput{Title: "Misc", Content: "stuff", Tags: []string{"reporting"}, Priority: PriorityHigh})
	hidden := mustCreate(t, svc, CreateNoteInput{Title: "Old report", Content: "archived"})
	mustCreate(t, svc, CreateNoteInput{Title: "Unrelated", Content: "nothing here"})
	_, err := svc.ToggleArchive(ctx, hidden.ID.Hex())
	require.NoError(t, err)

	res, err := svc.List(ctx, ListQuery{Search: "REPORT", Priority: PriorityHigh, Archived: "true"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{low.ID.Hex(), tagged.ID.Hex()}, ids(res.Notes))
	assert.Equal(t, int64(2), res.Pagination.TotalNotes)

	found, err := svc.Search(ctx, "report")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{low.ID.Hex(), tagged.ID.Hex()}, ids(found))
}

func TestService_SearchIsLiteral(t *testing.T) {
	svc, _ := setupService(t)
	mustCreate(t, svc, CreateNoteInput{Title: "cost", Content: "about $5 (approx)"})

	found, err := svc.Search(context.Background(), "(approx)")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(context.Background(), "c.st")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestService_ByPriority(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, CreateNoteInput{Title: "a", Content: "x", Priority: PriorityHigh})
	b := mustCreate(t, svc, CreateNoteInput{Title: "b", Content: "x", Priority: PriorityHigh})
	mustCreate(t, svc, CreateNoteInput{Title: "c", Content: "x"})
	_, err := svc.ToggleArchive(ctx, b.ID.Hex())
	require.NoError(t, err)

	got, err := svc.ByPriority(ctx, "high")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID.Hex()}, ids(got))

	_, err = svc.ByPriority(ctx, "urgent")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestService_Update(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	n := mustCreate(t, svc, CreateNoteInput{Title: "A", Content: "x", Tags: []string{"t"}})

	title := "B"
	prio := PriorityLow
	updated, err := svc.Update(ctx, n.ID.Hex(), UpdateNoteInput{Title: &title, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "x", updated.Content)
	assert.Equal(t, []string{"t"}, updated.Tags)
	assert.Equal(t, PriorityLow, updated.Priority)
	assert.Equal(t, n.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.Update(ctx, "64b7f0c2a1b2c3d4e5f60718", UpdateNoteInput{Title: &title})
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	n := mustCreate(t, svc, CreateNoteInput{Title: "A", Content: "x"})
	deleted, err := svc.Delete(ctx, n.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, n.ID, deleted.ID)

	_, err = svc.GetByID(ctx, n.ID.Hex())
	assert.ErrorIs(t, err, ErrNoteNotFound)
	_, err = svc.Delete(ctx, n.ID.Hex())
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestService_InvalidID(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.GetByID(context.Background(), "xyz")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestService_RenderMarkdown(t *testing.T) {
	svc, _ := setupService(t)
	assert.Equal(t, "<h1>Title</h1>\n<p><em>hi</em></p>\n", svc.RenderMarkdown("# Title\n\n*hi*"))
}

func TestNote_Preview(t *testing.T) {
	short := &Note{Content: "short"}
	assert.Equal(t, "short", short.Preview())

	long := &Note{Content: strings.Repeat("a", 150)}
	assert.Len(t, long.Preview(), 103)
}
