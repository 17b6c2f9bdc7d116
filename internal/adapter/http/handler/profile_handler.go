package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jortega/bancore/internal/adapter/http/dto"
	"github.com/jortega/bancore/internal/adapter/http/middleware"
	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

// ProfileHandler serves read-only projections over the ledger.
type ProfileHandler struct {
	profileUC *usecase.ProfileUseCase
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileUC *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{profileUC: profileUC}
}

// Profile returns the authenticated caller's profile: identity, balance,
// and entries grouped by kind.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	profile, err := h.profileUC.Profile(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromUseCase(profile))
}

// ListEntries lists ledger entries for an account, optionally filtered by
// the kind query parameter.
func (h *ProfileHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var kinds []domain.Kind
	if kind := r.URL.Query().Get("kind"); kind != "" {
		kinds = append(kinds, domain.Kind(kind))
	}

	entries, err := h.profileUC.ListEntries(r.Context(), accountID, kinds...)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
