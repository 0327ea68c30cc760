package notes

import (
	"bytes"
	"context"
	"time"

	"github.com/yuin/goldmark"

	"notesapi/internal/metrics"
)

type Service struct {
	store Store
	md    goldmark.Markdown
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		md:    goldmark.New(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new note
func (s *Service) Create(ctx context.Context, input CreateNoteInput) (*Note, error) {
	input, err := normalizeCreate(input)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	note := &Note{
		Title:     input.Title,
		Content:   input.Content,
		Tags:      input.Tags,
		Priority:  input.Priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Insert(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetByID retrieves a note by ID
func (s *Service) GetByID(ctx context.Context, id string) (*Note, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, oid)
}

// List runs a composed query and its count. The count uses the executed
// filter, so in search mode totalNotes counts search matches.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	plan := Compose(q)
	metrics.QueriesTotal.WithLabelValues(queryMode(plan.Filter)).Inc()

	notes, err := s.store.Find(ctx, plan)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx, plan.Filter)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Notes: notes,
		Pagination: Pagination{
			CurrentPage:  plan.Page,
			TotalPages:   TotalPages(total, plan.PerPage),
			TotalNotes:   total,
			NotesPerPage: plan.PerPage,
		},
	}, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, input UpdateNoteInput) (*Note, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	patch, err := normalizeUpdate(input)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, oid, patch, s.now().UTC().Truncate(time.Millisecond))
}

// ToggleArchive flips the archived flag of a note.
func (s *Service) ToggleArchive(ctx context.Context, id string) (*Note, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.ToggleArchive(ctx, oid, s.now().UTC().Truncate(time.Millisecond))
}

// Delete removes a note by ID and returns it
func (s *Service) Delete(ctx context.Context, id string) (*Note, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.store.Delete(ctx, oid)
}

// ByPriority returns the non-archived notes of one priority.
func (s *Service) ByPriority(ctx context.Context, priority string) ([]*Note, error) {
	p, err := ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	filter := Filter{Priority: p}
	metrics.QueriesTotal.WithLabelValues(queryMode(filter)).Inc()
	return s.store.Find(ctx, Plan{Filter: filter})
}

// Search returns every non-archived note matching term.
func (s *Service) Search(ctx context.Context, term string) ([]*Note, error) {
	if term == "" {
		return nil, newValidationError("term", "Search term is required")
	}
	filter := Filter{Search: term}
	metrics.QueriesTotal.WithLabelValues(queryMode(filter)).Inc()
	return s.store.Find(ctx, Plan{Filter: filter})
}

// RenderMarkdown converts markdown content to HTML
func (s *Service) RenderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return content // Return raw content on error
	}
	return buf.String()
}

func queryMode(f Filter) string {
	if f.SearchMode() {
		return "search"
	}
	return "filter"
}
