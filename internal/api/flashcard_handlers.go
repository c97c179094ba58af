package api

import (
	"net/http"
	"strconv"

	"github.com/studyflash/studyflash/internal/models"
)

type saveFlashcardsRequest struct {
	SessionID int64              `json:"session_id"`
	Cards     []models.Flashcard `json:"cards"`
}

func (s *Server) handleSaveFlashcards(w http.ResponseWriter, r *http.Request) {
	var req saveFlashcardsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.FlashcardService.SaveFlashcards(r.Context(), req.SessionID, req.Cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]any{"flashcards": saved})
}

func (s *Server) handleDueFlashcards(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	cards, err := s.FlashcardService.NextDue(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var card models.Flashcard
	if err := decodeJSON(r, &card); err != nil {
		handleError(w, r, err)
		return
	}
	card.ID = id

	updated, err := s.FlashcardService.UpdateFlashcard(r.Context(), card)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, updated)
}

type reviewRequest struct {
	Quality int `json:"quality"`
}

func (s *Server) handleReviewFlashcard(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.FlashcardService.ReviewFlashcard(r.Context(), id, req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, card)
}
