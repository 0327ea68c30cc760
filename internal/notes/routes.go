package notes

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether the backing database is reachable.
type Pinger func(ctx context.Context) error

// RegisterRoutes mounts the REST API and the HTML views on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler, ping Pinger, environment string) {
	mux.HandleFunc("GET /api/notes", h.ListNotes)
	mux.HandleFunc("POST /api/notes", h.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", h.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", h.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", h.DeleteNote)
	mux.HandleFunc("PATCH /api/notes/{id}/archive", h.ToggleArchive)
	mux.HandleFunc("GET /api/notes/priority/{priority}", h.NotesByPriority)
	mux.HandleFunc("GET /api/notes/search/{term}", h.SearchNotes)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		state := "connected"
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				state = "disconnected"
			}
		}
		h.jsonResponse(w, map[string]any{
			"success":     true,
			"message":     "Notes API is running",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": environment,
			"database":    state,
		}, http.StatusOK)
	})
	mux.HandleFunc("GET /api", func(w http.ResponseWriter, r *http.Request) {
		h.jsonResponse(w, apiDocs, http.StatusOK)
	})

	mux.HandleFunc("GET /{$}", h.HomePage)
	mux.HandleFunc("GET /notes/{id}", h.NotePage)
}

// NotFound is the fallback for unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]any{
		"success":            false,
		"message":            "Route not found",
		"requestedPath":      r.URL.RequestURI(),
		"availableEndpoints": "/api",
	}, http.StatusNotFound)
}

var apiDocs = map[string]any{
	"success": true,
	"message": "Welcome to Notes API",
	"version": "1.0.0",
	"endpoints": map[string]any{
		"notes": map[string]string{
			"GET /api/notes":                     "Get all notes with optional filtering and pagination",
			"GET /api/notes/{id}":                "Get a specific note by ID",
			"POST /api/notes":                    "Create a new note",
			"PUT /api/notes/{id}":                "Update a note",
			"DELETE /api/notes/{id}":             "Delete a note",
			"PATCH /api/notes/{id}/archive":      "Toggle archive status of a note",
			"GET /api/notes/priority/{priority}": "Get notes by priority (low/medium/high)",
			"GET /api/notes/search/{term}":       "Search notes by title, content, or tags",
		},
		"utility": map[string]string{
			"GET /api/health": "Check API health status",
			"GET /api":        "API documentation",
			"GET /metrics":    "Prometheus metrics",
			"POST /mcp":       "MCP tool endpoint",
		},
	},
	"queryParameters": map[string]any{
		"GET /api/notes": map[string]string{
			"page":      "Page number (default: 1)",
			"limit":     "Items per page (default: 10)",
			"priority":  "Filter by priority (low/medium/high)",
			"search":    "Search term for title/content/tags",
			"archived":  "Show archived notes (true/false, default: false)",
			"sortBy":    "Sort field (default: createdAt)",
			"sortOrder": "Sort order (asc/desc, default: desc)",
		},
	},
	"sampleNote": map[string]any{
		"title":    "My First Note",
		"content":  "This is the content of my note.",
		"tags":     []string{"personal", "important"},
		"priority": "medium",
	},
}
