package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jortega/bancore/internal/adapter/http/dto"
	"github.com/jortega/bancore/internal/infrastructure/auth"
	"github.com/jortega/bancore/internal/infrastructure/metrics"
	"github.com/jortega/bancore/internal/usecase"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	accountUC  *usecase.AccountUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountUC *usecase.AccountUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		accountUC:  accountUC,
		jwtManager: jwtManager,
		metrics:    m,
	}
}

// Register provisions a new account, optionally funding it with an initial
// consignation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	account, err := h.accountUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register account", err.Error())
		return
	}

	h.metrics.AccountsRegistered.Inc()

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Login authenticates an account holder by account number and document
// number and issues an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	account, err := h.accountUC.GetAccountByNumber(r.Context(), req.AccountNumber)
	if err != nil || account.DocumentNumber != req.DocumentNumber {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")

		return
	}

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())

		return
	}

	h.metrics.AuthAttempts.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		Account:     dto.AccountFromDomain(account),
	})
}
