package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/contributor-cards/internal/auth"
	"github.com/sakif/contributor-cards/internal/service"
)

// InternalHandler serves server-to-server card lookups authenticated by
// a time-derived HMAC token instead of a user session.
type InternalHandler struct {
	cardService *service.CardService
	timeTokens  *auth.TimeTokenService
	logger      *slog.Logger
}

func NewInternalHandler(cardService *service.CardService, timeTokens *auth.TimeTokenService, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{cardService: cardService, timeTokens: timeTokens, logger: logger}
}

// HandleGetCard returns a card by id, including its API key, to trusted
// backend callers.
//
// HTTP: GET /internal/cards/{cardId}?timeToken=xxx
//
// The token is checked before the card id touches storage: a missing
// token is a 400, a stale or forged one a 401, and only then does an
// unknown card become a 404.
func (h *InternalHandler) HandleGetCard(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("timeToken")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "missing timeToken",
		})
		return
	}

	if !h.timeTokens.Verify(token) {
		h.logger.Warn("internal lookup rejected: invalid time token")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "invalid timeToken",
		})
		return
	}

	card, err := h.cardService.GetForInternal(r.Context(), chi.URLParam(r, "cardId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}
