package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natnael/payops/internal/domain"
	"github.com/natnael/payops/internal/service"
)

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.PaymentService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.PaymentService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPayments(w, r)
	case http.MethodPost:
		h.createPayment(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// handlePaymentByID routes /payments/{id}, /payments/{id}/retry and
// /payments/{id}/status.
func (h *APIHandlers) handlePaymentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/payments/"), "/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "payment ID is required")
		return
	}

	id, action, _ := strings.Cut(rest, "/")
	switch action {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.getPayment(w, r, id)
	case "retry":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.retryPayment(w, r, id)
	case "status":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.updatePaymentStatus(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "unknown payment action")
	}
}

func (h *APIHandlers) listPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := service.ListParams{
		Page:   parseInt(query.Get("page"), 1),
		Limit:  parseInt(query.Get("limit"), 10),
		Status: query.Get("status"),
		Search: query.Get("search"),
	}

	result, err := h.service.ListPayments(r.Context(), params)
	if err != nil {
		h.respondError(w, err, "failed to list payments")
		return
	}

	resp := listPaymentsResponse{
		Data: make([]paymentResponse, 0, len(result.Items)),
		Pagination: paginationResponse{
			Page:       result.Pagination.Page,
			Limit:      result.Pagination.Limit,
			Total:      result.Pagination.Total,
			TotalPages: result.Pagination.TotalPages,
		},
	}
	for _, item := range result.Items {
		resp.Data = append(resp.Data, toPaymentResponse(item))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) createPayment(w http.ResponseWriter, r *http.Request) {
	var payload createPaymentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.SubmitPayment(r.Context(), service.SubmitPaymentInput{
		ID:               payload.ID,
		Amount:           payload.Amount,
		Currency:         payload.Currency,
		RecipientName:    payload.RecipientName,
		RecipientAccount: payload.RecipientAccount,
	})
	if err != nil {
		h.respondError(w, err, "failed to create payment")
		return
	}

	respondJSON(w, http.StatusCreated, toPaymentResponse(created))
}

func (h *APIHandlers) getPayment(w http.ResponseWriter, r *http.Request, id string) {
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to fetch payment")
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *APIHandlers) retryPayment(w http.ResponseWriter, r *http.Request, id string) {
	payment, err := h.service.RetryPayment(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to retry payment")
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *APIHandlers) updatePaymentStatus(w http.ResponseWriter, r *http.Request, id string) {
	var payload updateStatusRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.service.UpdatePaymentStatus(r.Context(), id, payload.Status, payload.ErrorMessage)
	if err != nil {
		h.respondError(w, err, "failed to update payment status")
		return
	}
	respondJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *APIHandlers) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	snapshot, err := h.service.Analytics(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to compute analytics")
		return
	}

	respondJSON(w, http.StatusOK, analyticsResponse{
		TotalPayments:         snapshot.TotalPayments,
		CompletedCount:        snapshot.CompletedCount,
		FailedCount:           snapshot.FailedCount,
		PendingCount:          snapshot.PendingCount,
		InProgressCount:       snapshot.InProgressCount,
		AverageProcessingTime: snapshot.AverageProcessingTime,
		CurrentTPS:            snapshot.CurrentTPS,
		MaxTPS:                snapshot.MaxTPS,
	})
}

// respondError maps service and domain errors onto HTTP status codes.
func (h *APIHandlers) respondError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, domain.ErrDuplicateID):
		writeError(w, http.StatusConflict, "payment id already exists")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, logMsg)
	}
}

// --- Request & Response DTOs ---

type createPaymentRequest struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
}

type updateStatusRequest struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage"`
}

type paymentResponse struct {
	ID               string  `json:"id"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	RecipientName    string  `json:"recipientName"`
	RecipientAccount string  `json:"recipientAccount"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
	ErrorMessage     string  `json:"errorMessage,omitempty"`
	ProcessingTime   *int64  `json:"processingTime,omitempty"`
}

type paginationResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type listPaymentsResponse struct {
	Data       []paymentResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type analyticsResponse struct {
	TotalPayments         int     `json:"totalPayments"`
	CompletedCount        int     `json:"completedCount"`
	FailedCount           int     `json:"failedCount"`
	PendingCount          int     `json:"pendingCount"`
	InProgressCount       int     `json:"inProgressCount"`
	AverageProcessingTime float64 `json:"averageProcessingTime"`
	CurrentTPS            float64 `json:"currentTps"`
	MaxTPS                float64 `json:"maxTps"`
}

// --- Helpers ---

func toPaymentResponse(p domain.Payment) paymentResponse {
	resp := paymentResponse{
		ID:               p.ID,
		Amount:           p.Amount.InexactFloat64(),
		Currency:         p.Currency,
		RecipientName:    p.RecipientName,
		RecipientAccount: p.RecipientAccount,
		Status:           string(p.Status),
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
		ErrorMessage:     p.ErrorMessage,
	}
	if p.ProcessingTime != nil {
		pt := *p.ProcessingTime
		resp.ProcessingTime = &pt
	}
	return resp
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
