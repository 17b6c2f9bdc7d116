package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jortega/bancore/internal/adapter/http/dto"
	"github.com/jortega/bancore/internal/adapter/http/middleware"
	"github.com/jortega/bancore/internal/infrastructure/metrics"
	"github.com/jortega/bancore/internal/usecase"
)

// TransactionHandler handles the three balance-affecting operations.
type TransactionHandler struct {
	transactUC *usecase.TransactionUseCase
	metrics    *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactUC *usecase.TransactionUseCase, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		transactUC: transactUC,
		metrics:    m,
	}
}

// Consignation credits an account with an external deposit. Unlike the
// other operations it needs no authenticated caller: anyone can deposit
// into a known account number.
func (h *TransactionHandler) Consignation(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsignationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	start := time.Now()

	result, err := h.transactUC.Consignation(r.Context(), req.ToUseCaseInput())
	h.observe("consignation", start, err)

	if err != nil {
		writeError(w, mapDomainError(err), "failed to process consignation", err.Error())
		return
	}

	h.metrics.TransactionAmount.WithLabelValues("consignation").Observe(result.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.ConsignationFromResult(result))
}

// Withdrawal debits the authenticated caller's account.
func (h *TransactionHandler) Withdrawal(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	var req dto.WithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()

	result, err := h.transactUC.Withdrawal(r.Context(), req.ToUseCaseInput(claims.AccountID))
	h.observe("withdrawal", start, err)

	if err != nil {
		writeError(w, mapDomainError(err), "failed to process withdrawal", err.Error())
		return
	}

	h.metrics.TransactionAmount.WithLabelValues("withdrawal").Observe(result.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromResult(result))
}

// Transfer moves funds from the authenticated caller to the receiver
// addressed by account number.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing caller identity", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	start := time.Now()

	result, err := h.transactUC.Transfer(r.Context(), req.ToUseCaseInput(claims.AccountID))
	h.observe("transfer", start, err)

	if err != nil {
		writeError(w, mapDomainError(err), "failed to process transfer", err.Error())
		return
	}

	h.metrics.TransactionAmount.WithLabelValues("transfer").Observe(result.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}

func (h *TransactionHandler) observe(kind string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	h.metrics.TransactionsTotal.WithLabelValues(kind, status).Inc()
	h.metrics.TransactionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
