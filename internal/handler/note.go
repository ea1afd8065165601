package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/fayaebeb/mirai-app-sub001/internal/ctxkeys"
	"github.com/fayaebeb/mirai-app-sub001/internal/model"
	"github.com/fayaebeb/mirai-app-sub001/internal/repository"
	"github.com/fayaebeb/mirai-app-sub001/internal/service"
)

const maxImportSize = 1 << 20 // 1 MB per markdown file

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

type noteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	notes, err := h.noteService.Notes(user.ID)
	if err != nil {
		slog.Error("failed to get notes", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load notes")
		return
	}
	if notes == nil {
		notes = []*model.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	note, err := h.noteService.ByID(user.ID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		slog.Error("failed to get note", "error", err, "user_id", user.ID, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "Failed to load note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.noteService.Create(user.ID, req.Title, req.Content, req.Tags)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create note", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.noteService.Update(user.ID, noteID, req.Title, req.Content, req.Tags)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoteNotFound):
			writeError(w, http.StatusNotFound, "Note not found")
		case errors.Is(err, service.ErrTitleRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to update note", "error", err, "user_id", user.ID, "note_id", noteID)
			writeError(w, http.StatusInternalServerError, "Failed to update note")
		}
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	if err := h.noteService.Delete(user.ID, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		slog.Error("failed to delete note", "error", err, "user_id", user.ID, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Render returns the note body as sanitized-input HTML for preview
func (h *NoteHandler) Render(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	html, err := h.noteService.RenderHTML(user.ID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		slog.Error("failed to render note", "error", err, "user_id", user.ID, "note_id", noteID)
		writeError(w, http.StatusInternalServerError, "Failed to render note")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// Import accepts a multipart markdown file and creates a note from it,
// reading the title and tags from YAML frontmatter when present.
func (h *NoteHandler) Import(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	source, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		slog.Error("failed to read import", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	note, err := h.noteService.Import(user.ID, header.Filename, source)
	if err != nil {
		slog.Error("failed to import note", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to import note")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}
