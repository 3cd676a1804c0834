package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/contributor-cards/internal/auth"
	"github.com/sakif/contributor-cards/internal/model"
	"github.com/sakif/contributor-cards/internal/service"
)

// CardHandler serves the authenticated card CRUD endpoints.
type CardHandler struct {
	cardService *service.CardService
	logger      *slog.Logger
}

func NewCardHandler(cardService *service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{cardService: cardService, logger: logger}
}

// callerUID pulls the authenticated user out of the request context.
// All card routes sit behind RequireAuth, so a miss means broken wiring.
func callerUID(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return "", false
	}
	return uid, true
}

// HandleList returns the caller's cards, newest first.
//
// HTTP: GET /cards?userId=xxx (auth required)
//
// The userId query parameter is accepted for compatibility but may only
// name the caller; anything else is a 403.
func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerUID(w, r)
	if !ok {
		return
	}

	cards, err := h.cardService.List(r.Context(), uid, r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cards)
}

// HandleCreate stores a new card owned by the caller.
//
// HTTP: POST /cards (auth required)
func (h *CardHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerUID(w, r)
	if !ok {
		return
	}

	var card model.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	created, err := h.cardService.Create(r.Context(), uid, &card)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdate applies a partial update to one of the caller's cards.
//
// HTTP: PUT /cards/{cardId} (auth required)
//
// Cards owned by someone else look exactly like missing cards (404), so
// the endpoint never confirms a foreign card's existence.
func (h *CardHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerUID(w, r)
	if !ok {
		return
	}

	var patch model.CardPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	updated, err := h.cardService.Update(r.Context(), uid, chi.URLParam(r, "cardId"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete removes one of the caller's cards.
//
// HTTP: DELETE /cards/{cardId} (auth required)
func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ok := callerUID(w, r)
	if !ok {
		return
	}

	if err := h.cardService.Delete(r.Context(), uid, chi.URLParam(r, "cardId")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "card deleted"})
}
