package puzzles

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/python-puzzle/backend/internal/generator"
	"github.com/python-puzzle/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func puzzleIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// ListPuzzles handles GET /puzzles with optional category and level
// query filters.
func (h *Handler) ListPuzzles(w http.ResponseWriter, r *http.Request) {
	var category *models.Category
	var level *models.Level

	if v := r.URL.Query().Get("category"); v != "" {
		c := models.Category(v)
		if !models.ValidCategories[c] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid category"})
			return
		}
		category = &c
	}
	if v := r.URL.Query().Get("level"); v != "" {
		l := models.Level(v)
		if !models.ValidLevels[l] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
			return
		}
		level = &l
	}

	puzzles, err := h.service.ListPuzzles(category, level)
	if err != nil {
		log.Printf("[puzzles] ListPuzzles error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list puzzles"})
		return
	}
	if puzzles == nil {
		puzzles = []models.Puzzle{}
	}

	writeJSON(w, http.StatusOK, models.PuzzleListResponse{Puzzles: puzzles, Total: len(puzzles)})
}

// GetPuzzle handles GET /puzzles/{id}, returning the puzzle plus the
// caller's prior submission when one exists.
func (h *Handler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	puzzleID, err := puzzleIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid puzzle ID"})
		return
	}

	detail, err := h.service.GetPuzzleDetail(userID, puzzleID)
	if err != nil {
		h.writeError(w, err, "Failed to get puzzle")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Submit handles POST /puzzles/{id}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	puzzleID, err := puzzleIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid puzzle ID"})
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.Submit(r.Context(), userID, puzzleID, req)
	if err != nil {
		h.writeError(w, err, "Failed to process submission")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetRetryCode handles GET /puzzles/{id}/retry, returning the code
// preserved from the user's last failed attempt.
func (h *Handler) GetRetryCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	puzzleID, err := puzzleIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid puzzle ID"})
		return
	}

	writeJSON(w, http.StatusOK, models.RetryCodeResponse{Code: h.service.GetRetryCode(userID, puzzleID)})
}

// Generate handles POST /admin/puzzles/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GeneratePuzzlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !models.ValidCategories[req.Category] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid category"})
		return
	}
	if !models.ValidLevels[req.Level] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid level"})
		return
	}
	if req.Count <= 0 {
		req.Count = 6
	}
	if req.Count > 20 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Count must be 20 or fewer"})
		return
	}

	resp, err := h.service.GenerateBatch(r.Context(), req)
	if err != nil {
		h.writeError(w, err, "Failed to generate puzzles")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Edit handles PUT /admin/puzzles/{id}.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	puzzleID, err := puzzleIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid puzzle ID"})
		return
	}

	var req models.EditPuzzleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	puzzle, err := h.service.EditPuzzle(r.Context(), puzzleID, req)
	if err != nil {
		h.writeError(w, err, "Failed to update puzzle")
		return
	}

	writeJSON(w, http.StatusOK, puzzle)
}

// Delete handles DELETE /admin/puzzles/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	puzzleID, err := puzzleIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid puzzle ID"})
		return
	}

	if err := h.service.DeletePuzzle(puzzleID); err != nil {
		h.writeError(w, err, "Failed to delete puzzle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	var valErr *ValidationError
	var candErr *generator.ValidationError
	var genErr *GenerationFailure

	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Puzzle not found"})
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: valErr.Reason})
	case errors.As(err, &candErr):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: candErr.Error()})
	case errors.As(err, &genErr):
		log.Printf("[puzzles] generation failed: %v", genErr)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: genErr.Error()})
	default:
		log.Printf("[puzzles] %s: %v", fallback, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
