package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blueplan/technotes-go/internal/technotes/errs"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
	"github.com/blueplan/technotes-go/internal/technotes/notes"
	"github.com/blueplan/technotes-go/internal/technotes/users"
)

// NoteHandler translates HTTP requests into note service calls and maps
// outcomes back to status codes.
type NoteHandler struct {
	service *notes.Service
	logger  *logx.Logger
}

// NewNoteHandler creates the note handler.
func NewNoteHandler(service *notes.Service, logger *logx.Logger) *NoteHandler {
	return &NoteHandler{service: service, logger: logger}
}

type createNoteRequest struct {
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type updateNoteRequest struct {
	ID    string `json:"id"`
	User  string `json:"user"`
	Title string `json:"title"`
	Text  string `json:"text"`
	// Pointer so a missing or non-boolean value is distinguishable from
	// false; the contract requires an explicit boolean on update.
	Completed *bool `json:"completed"`
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

// GetAllNotes handles GET /notes.
func (h *NoteHandler) GetAllNotes(c *gin.Context) {
	enriched, err := h.service.ListEnriched(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "All fields are required", "No notes found")
		return
	}
	c.JSON(http.StatusOK, enriched)
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req.User, req.Title, req.Text); err != nil {
		h.respondError(c, err, "All fields are required", "Note not found")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "New note created"})
}

// UpdateNote handles PATCH /notes. The whole mutable state is replaced, so
// every field is required, completed included.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required"})
		return
	}

	note, err := h.service.Update(c.Request.Context(), req.ID, req.User, req.Title, req.Text, *req.Completed)
	if err != nil {
		h.respondError(c, err, "All fields are required", "Note not found")
		return
	}
	c.JSON(http.StatusOK, fmt.Sprintf("'%s' updated", note.Title))
}

// DeleteNote handles DELETE /notes.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	var req deleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Note ID required"})
		return
	}

	note, err := h.service.Delete(c.Request.Context(), req.ID)
	if err != nil {
		h.respondError(c, err, "Note ID required", "Note not found")
		return
	}
	c.JSON(http.StatusOK, fmt.Sprintf("Note '%s' with ID %s deleted", note.Title, note.ID))
}

// respondError maps service failures to transport responses. Validation and
// not-found outcomes are 400s with route-specific messages, conflicts are
// 409s; anything else is an unclassified failure, logged and answered 500.
func (h *NoteHandler) respondError(c *gin.Context, err error, validationMsg, notFoundMsg string) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationMsg})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"message": notFoundMsg})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Duplicate note title"})
	default:
		h.logger.Error(c.Request.Context(), "note request failed",
			logx.KV("error", err),
			logx.KV("method", c.Request.Method),
			logx.KV("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// UserHandler serves read-only user lookups.
type UserHandler struct {
	directory users.Directory
	logger    *logx.Logger
}

// NewUserHandler creates the user handler.
func NewUserHandler(directory users.Directory, logger *logx.Logger) *UserHandler {
	return &UserHandler{directory: directory, logger: logger}
}

// GetAllUsers handles GET /users.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	all, err := h.directory.List(c.Request.Context())
	if err != nil {
		h.logger.Error(c.Request.Context(), "user listing failed", logx.KV("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if len(all) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No users found"})
		return
	}
	c.JSON(http.StatusOK, all)
}
