package notes

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore keeps notes in process memory. Notes are returned in insertion
// order when a plan has no sort field.
type MemStore struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	byID  map[primitive.ObjectID]*Note
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[primitive.ObjectID]*Note)}
}

func (m *MemStore) Insert(_ context.Context, n *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	m.byID[n.ID] = cloneNote(n)
	m.order = append(m.order, n.ID)
	return nil
}

func (m *MemStore) FindByID(_ context.Context, id primitive.ObjectID) (*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.byID[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (m *MemStore) Find(_ context.Context, p Plan) ([]*Note, error) {
	m.mu.RLock()
	matched := m.matching(p.Filter)
	m.mu.RUnlock()

	if p.Sort.Field != "" {
		slices.SortStableFunc(matched, func(a, b *Note) int {
			c := compareField(a, b, p.Sort.Field)
			if p.Sort.Desc {
				return -c
			}
			return c
		})
	}

	if p.Skip < 0 || p.Skip >= int64(len(matched)) {
		return []*Note{}, nil
	}
	matched = matched[p.Skip:]
	if p.Limit > 0 && p.Limit < int64(len(matched)) {
		matched = matched[:p.Limit]
	}
	return matched, nil
}

func (m *MemStore) Count(_ context.Context, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.matching(f))), nil
}

func (m *MemStore) Update(_ context.Context, id primitive.ObjectID, patch NotePatch, now time.Time) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.byID[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.SetTags {
		n.Tags = slices.Clone(patch.Tags)
	}
	if patch.Priority != nil {
		n.Priority = *patch.Priority
	}
	n.UpdatedAt = now
	return cloneNote(n), nil
}

func (m *MemStore) ToggleArchive(_ context.Context, id primitive.ObjectID, now time.Time) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.byID[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	n.IsArchived = !n.IsArchived
	n.UpdatedAt = now
	return cloneNote(n), nil
}

func (m *MemStore) Delete(_ context.Context, id primitive.ObjectID) (*Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.byID[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	delete(m.byID, id)
	m.order = slices.DeleteFunc(m.order, func(o primitive.ObjectID) bool { return o == id })
	return n, nil
}

// matching must be called with mu held.
func (m *MemStore) matching(f Filter) []*Note {
	match := f.Matcher()
	out := []*Note{}
	for _, id := range m.order {
		if n := m.byID[id]; match(n) {
			out = append(out, cloneNote(n))
		}
	}
	return out
}

func cloneNote(n *Note) *Note {
	c := *n
	c.Tags = slices.Clone(n.Tags)
	return &c
}

// compareField orders two notes by a stored field name. Unknown fields
// compare equal.
func compareField(a, b *Note, field string) int {
	switch field {
	case "_id":
		return strings.Compare(a.ID.Hex(), b.ID.Hex())
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "content":
		return strings.Compare(a.Content, b.Content)
	case "priority":
		return strings.Compare(string(a.Priority), string(b.Priority))
	case "is_archived":
		return compareBool(a.IsArchived, b.IsArchived)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
