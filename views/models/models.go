package models

import (
	"net/url"
	"time"
)

// NoteView represents a note for template rendering
type NoteView struct {
	ID          string
	Title       string
	Content     string
	HTML        string // content rendered from markdown
	Tags        []string
	Priority    string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CreatedText string
}

// ListView is one rendered page of the note list
type ListView struct {
	Notes      []NoteView
	Page       int
	TotalPages int
	TotalNotes int64
	Query      url.Values // incoming query, reused for pager links
}
