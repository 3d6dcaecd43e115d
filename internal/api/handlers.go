/**
 * @description
 * HTTP handlers for the fixed-deposit account endpoints. Handlers parse
 * incoming requests, call the application service, and map domain errors to
 * HTTP status codes: ValidationError to 400, missing accounts to 404,
 * sibling-service outages to 502.
 */

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SOOD-11/FD-Module-sub000/internal/app"
	"github.com/SOOD-11/FD-Module-sub000/internal/domain"
	"github.com/SOOD-11/FD-Module-sub000/internal/store"
	"github.com/SOOD-11/FD-Module-sub000/pkg/calculationclient"
)

// DepositHandlers holds the application service that handlers will use.
type DepositHandlers struct {
	service *app.Service
	logger  *slog.Logger
}

// NewDepositHandlers creates a new instance of DepositHandlers.
func NewDepositHandlers(service *app.Service, logger *slog.Logger) *DepositHandlers {
	return &DepositHandlers{service: service, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *DepositHandlers) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var upstreamErr *domain.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Msg})
	case errors.Is(err, store.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "account not found"})
	case errors.As(err, &upstreamErr):
		h.logger.Error("upstream service unavailable", "service", upstreamErr.Service, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "a dependent service is unavailable"})
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// openAccountResponse pairs the created account with the advisory maturity
// projection (absent when the calculation service was unreachable).
type openAccountResponse struct {
	Account    *domain.DepositAccount        `json:"account"`
	Projection *calculationclient.Projection `json:"projection,omitempty"`
}

// OpenAccountHandler handles requests to create a fixed-deposit account.
func (h *DepositHandlers) OpenAccountHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := GetCustomerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not resolve customer from token"})
		return
	}

	var req domain.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	account, projection, err := h.service.OpenAccount(r.Context(), customerID, req)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, openAccountResponse{Account: account, Projection: projection})
}

// GetAccountHandler returns one of the caller's accounts.
func (h *DepositHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := GetCustomerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not resolve customer from token"})
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	account, err := h.service.GetAccount(r.Context(), customerID, accountID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ListAccountsHandler returns every account belonging to the caller.
func (h *DepositHandlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := GetCustomerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not resolve customer from token"})
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), customerID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if accounts == nil {
		accounts = []domain.DepositAccount{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// CloseAccountHandler closes one of the caller's accounts.
func (h *DepositHandlers) CloseAccountHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := GetCustomerID(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not resolve customer from token"})
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid account id"})
		return
	}

	account, err := h.service.CloseAccount(r.Context(), customerID, accountID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}
