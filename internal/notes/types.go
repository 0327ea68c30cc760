package notes

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the importance level of a note.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Note is a user-authored text record.
type Note struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Tags       []string           `bson:"tags" json:"tags"`
	Priority   Priority           `bson:"priority" json:"priority"`
	IsArchived bool               `bson:"is_archived" json:"isArchived"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}

const previewLen = 100

// Preview returns the first 100 characters of the content.
func (n *Note) Preview() string {
	r := []rune(n.Content)
	if len(r) <= previewLen {
		return n.Content
	}
	return string(r[:previewLen]) + "..."
}

// FormattedCreatedAt returns the creation time in a human readable form.
func (n *Note) FormattedCreatedAt() string {
	return n.CreatedAt.Format("January 2, 2006 at 03:04 PM")
}

// MarshalJSON adds the derived preview fields and guarantees tags is an array.
func (n Note) MarshalJSON() ([]byte, error) {
	type plain Note
	out := struct {
		plain
		Preview            string `json:"preview"`
		FormattedCreatedAt string `json:"formattedCreatedAt"`
	}{
		plain:              plain(n),
		Preview:            n.Preview(),
		FormattedCreatedAt: n.FormattedCreatedAt(),
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return json.Marshal(out)
}

// CreateNoteInput is the input for creating a note
type CreateNoteInput struct {
	Title    string   `json:"title" validate:"required,max=100"`
	Content  string   `json:"content" validate:"required,max=5000"`
	Tags     []string `json:"tags" validate:"omitempty,dive,max=30"`
	Priority Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateNoteInput is a partial update; nil fields are left untouched.
type UpdateNoteInput struct {
	Title    *string   `json:"title" validate:"omitnil,min=1,max=100"`
	Content  *string   `json:"content" validate:"omitnil,min=1,max=5000"`
	Tags     *[]string `json:"tags" validate:"omitnil,dive,max=30"`
	Priority *Priority `json:"priority" validate:"omitnil,oneof=low medium high"`
}

// NotePatch is the set of fields a store applies on update.
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     []string
	SetTags  bool
	Priority *Priority
}

// ListQuery holds the list parameters accepted by GET /api/notes.
type ListQuery struct {
	Page      int
	Limit     int
	Priority  Priority // empty means any
	Archived  string   // "true" selects archived notes, anything else non-archived
	Search    string
	SortBy    string
	SortOrder string
}

// String is used in log lines.
func (q ListQuery) String() string {
	return fmt.Sprintf("page=%d limit=%d priority=%q archived=%q search=%q sort=%s:%s",
		q.Page, q.Limit, q.Priority, q.Archived, q.Search, q.SortBy, q.SortOrder)
}

// Pagination is the page metadata returned alongside a list.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalNotes   int64 `json:"totalNotes"`
	NotesPerPage int   `json:"notesPerPage"`
}

// ListResult is one page of notes.
type ListResult struct {
	Notes      []*Note    `json:"notes"`
	Pagination Pagination `json:"pagination"`
}
