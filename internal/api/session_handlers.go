package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/worker"
)

type createSessionRequest struct {
	Title      string `json:"title"`
	SourceType string `json:"source_type"`
	SourceURL  string `json:"source_url"`
	Content    string `json:"content"`
	CardCount  int    `json:"card_count"`
}

// handleCreateSession creates a session and, when content text is supplied,
// enqueues the ingestion pipeline for it.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.CreateSession(r.Context(), req.Title, req.SourceType, req.SourceURL)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Content) != "" {
		count := req.CardCount
		if count <= 0 {
			count = s.CardTarget
		}
		job := worker.NewIngestSessionJob(session.ID, req.Content, count, s.SessionService, s.GenerationService)
		s.IngestPool.Submit(job)
		log.Info("ingestion queued: session_id=%d, job_id=%s", session.ID, job.JobID)
	}

	respondJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.SessionFilter{
		SourceType: q.Get("source_type"),
		Status:     q.Get("status"),
		OrderBy:    q.Get("order_by"),
		OrderDir:   strings.ToUpper(q.Get("order_dir")),
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	sessions, total, err := s.SessionService.ListSessions(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"sessions": sessions,
		"total":    total,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

type updateTranscriptRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handleUpdateTranscript(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateTranscriptRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.SessionService.UpdateTranscript(r.Context(), id, req.Transcript); err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.SessionService.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleSummarizeSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	summary, err := s.GenerationService.SummarizeSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"summary": summary})
}

type generateFlashcardsRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleGenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	req := generateFlashcardsRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
	}

	cards, err := s.GenerationService.GenerateFlashcards(r.Context(), id, req.Count)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]any{"flashcards": cards})
}

func (s *Server) handleSessionFlashcards(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// 404 for unknown sessions rather than an empty list.
	if _, err := s.SessionService.GetSession(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.FlashcardService.ListFlashcards(r.Context(), models.FlashcardFilter{SessionID: id})
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.SessionService.DeleteSession(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}

type analyzeRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleAnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	analysis, err := s.GenerationService.AnalyzeDocument(r.Context(), req.Content)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"analysis": analysis})
}
