package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/export"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
)

// handleExportSession streams a session's flashcards as an Anki-importable
// download. ?format=csv|json selects the encoding (csv default); ?deck
// overrides the deck name, which otherwise falls back to the session title.
func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		handleError(w, r, errors.NewBadRequestError("format must be csv or json"))
		return
	}

	session, err := s.SessionService.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.FlashcardService.ListFlashcards(r.Context(), models.FlashcardFilter{SessionID: id})
	if err != nil {
		handleError(w, r, err)
		return
	}

	deck := r.URL.Query().Get("deck")
	if deck == "" {
		deck = session.Title
	}

	// Buffer the export so an encoding failure can still produce a JSON
	// error instead of a truncated download.
	var buf bytes.Buffer
	var contentType string
	switch format {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = export.AnkiCSV(&buf, cards, deck)
	case "json":
		contentType = "application/json; charset=utf-8"
		err = export.AnkiJSON(&buf, cards, deck)
	}
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	logger.FromContext(r.Context()).Info("exporting session: id=%d, format=%s, cards=%d", id, format, len(cards))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(deck, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
