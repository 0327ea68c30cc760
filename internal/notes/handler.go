package notes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"notesapi/views/models"
	"notesapi/views/pages"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// --- REST API Handlers ---

// ListNotes handles GET /api/notes
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve notes")
		return
	}
	h.log.Debug("listing notes", "query", q.String())

	result, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve notes")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: "Notes retrieved successfully", Data: result}, http.StatusOK)
}

// GetNote handles GET /api/notes/{id}
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to retrieve note")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: "Note retrieved successfully", Data: note}, http.StatusOK)
}

// CreateNote handles POST /api/notes
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var input CreateNoteInput
	if err := decodeBody(r, &input); err != nil {
		h.fail(w, r, err, "Failed to create note")
		return
	}

	note, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.fail(w, r, err, "Failed to create note")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: "Note created successfully", Data: note}, http.StatusCreated)
}

// UpdateNote handles PUT /api/notes/{id}
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := ParseID(id); err != nil {
		h.fail(w, r, err, "Failed to update note")
		return
	}

	var input UpdateNoteInput
	if err := decodeBody(r, &input); err != nil {
		h.fail(w, r, err, "Failed to update note")
		return
	}

	note, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		h.fail(w, r, err, "Failed to update note")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: "Note updated successfully", Data: note}, http.StatusOK)
}

// ToggleArchive handles PATCH /api/notes/{id}/archive
func (h *Handler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.ToggleArchive(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to toggle archive status")
		return
	}

	msg := "Note unarchived successfully"
	if note.IsArchived {
		msg = "Note archived successfully"
	}
	h.jsonResponse(w, envelope{Success: true, Message: msg, Data: note}, http.StatusOK)
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Failed to delete note")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: "Note deleted successfully", Data: note}, http.StatusOK)
}

// NotesByPriority handles GET /api/notes/priority/{priority}
func (h *Handler) NotesByPriority(w http.ResponseWriter, r *http.Request) {
	priority := r.PathValue("priority")
	notes, err := h.svc.ByPriority(r.Context(), priority)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			h.jsonResponse(w, envelope{Message: "Invalid priority. Must be low, medium, or high"}, http.StatusBadRequest)
			return
		}
		h.fail(w, r, err, "Failed to retrieve notes by priority")
		return
	}

	h.jsonResponse(w, envelope{
		Success: true,
		Message: "Notes with " + priority + " priority retrieved successfully",
		Data:    notes,
	}, http.StatusOK)
}

// SearchNotes handles GET /api/notes/search/{term}
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	notes, err := h.svc.Search(r.Context(), term)
	if err != nil {
		h.fail(w, r, err, "Failed to search notes")
		return
	}

	h.jsonResponse(w, envelope{Success: true, Message: `Search results for "` + term + `"`, Data: notes}, http.StatusOK)
}

// --- Helper methods ---

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field == "tags" {
		return newValidationError("tags", "Tags must be an array")
	}
	return newValidationError("body", "Invalid JSON body")
}

// fail maps an error to its HTTP status. message is used for server
// errors only; details of those are logged, not returned.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.jsonResponse(w, envelope{Message: "Validation failed", Errors: verr.Errors}, http.StatusBadRequest)
	case errors.Is(err, ErrNoteNotFound):
		h.jsonResponse(w, envelope{Message: "Note not found"}, http.StatusNotFound)
	default:
		h.log.ErrorContext(r.Context(), message, "error", err, "path", r.URL.Path)
		h.jsonResponse(w, envelope{Message: message}, http.StatusInternalServerError)
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// --- View model converters ---

func (h *Handler) noteToView(note *Note) models.NoteView {
	return models.NoteView{
		ID:          note.ID.Hex(),
		Title:       note.Title,
		Content:     note.Content,
		HTML:        h.svc.RenderMarkdown(note.Content),
		Tags:        note.Tags,
		Priority:    string(note.Priority),
		IsArchived:  note.IsArchived,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
		CreatedText: note.FormattedCreatedAt(),
	}
}

func (h *Handler) notesToViews(notes []*Note) []models.NoteView {
	views := make([]models.NoteView, len(notes))
	for i, note := range notes {
		views[i] = h.noteToView(note)
	}
	return views
}

// --- Web Handlers ---

// HomePage handles GET /
func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	q, err := ParseListQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.List(r.Context(), q)
	if err != nil {
		h.log.Error("failed to list notes", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page := models.ListView{
		Notes:      h.notesToViews(result.Notes),
		Page:       result.Pagination.CurrentPage,
		TotalPages: result.Pagination.TotalPages,
		TotalNotes: result.Pagination.TotalNotes,
		Query:      r.URL.Query(),
	}
	pages.HomePage(page).Render(r.Context(), w)
}

// NotePage handles GET /notes/{id}
func (h *Handler) NotePage(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetByID(r.Context(), r.PathValue("id"))
	var verr *ValidationError
	if errors.Is(err, ErrNoteNotFound) || errors.As(err, &verr) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("failed to get note", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pages.NotePage(h.noteToView(note)).Render(r.Context(), w)
}
