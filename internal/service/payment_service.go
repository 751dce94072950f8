package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/natnael/payops/internal/analytics"
	"github.com/natnael/payops/internal/domain"
	"github.com/natnael/payops/internal/metrics"
	"github.com/natnael/payops/internal/store"
)

// PaymentStore is the storage contract required by the payment service.
type PaymentStore interface {
	List(opts store.ListOptions) domain.PaymentListResult
	Snapshot() []domain.Payment
	FindByID(id string) (domain.Payment, bool)
	Insert(p domain.Payment) (domain.Payment, error)
	UpdateStatus(id string, status domain.PaymentStatus, errorMessage string) (domain.Payment, error)
	Retry(id string) (domain.Payment, error)
	NextID() string
}

// PaymentService orchestrates validation, pagination, and analytics over the
// payment store.
type PaymentService struct {
	store PaymentStore
	load  analytics.LoadIndicator
}

// NewPaymentService constructs a PaymentService. A nil indicator falls back
// to the simulated one.
func NewPaymentService(st PaymentStore, load analytics.LoadIndicator) *PaymentService {
	if load == nil {
		load = analytics.NewSimulatedIndicator(0)
	}
	return &PaymentService{
		store: st,
		load:  load,
	}
}

// PaginationMeta captures pagination metadata returned to API clients.
type PaginationMeta struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// PaymentsPage represents one paginated slice of the feed with metadata.
type PaymentsPage struct {
	Items      []domain.Payment
	Pagination PaginationMeta
}

// ListParams defines filters for the payment feed. Status accepts an exact
// payment status, or "" / "ALL" for no filter.
type ListParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// ListPayments produces a filtered, paginated view of the feed. It never
// mutates the store; a page beyond the last yields an empty result rather
// than an error.
func (s *PaymentService) ListPayments(ctx context.Context, params ListParams) (PaymentsPage, error) {
	if err := ctx.Err(); err != nil {
		return PaymentsPage{}, err
	}

	var status domain.PaymentStatus
	if params.Status != "" && params.Status != "ALL" {
		parsed, err := domain.ParseStatus(params.Status)
		if err != nil {
			return PaymentsPage{}, &ValidationError{Field: "status", Message: err.Error()}
		}
		status = parsed
	}

	page, limit := normalizePagination(params.Page, params.Limit)
	result := s.store.List(store.ListOptions{
		Status: status,
		Search: params.Search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})

	return PaymentsPage{
		Items:      result.Items,
		Pagination: buildPaginationMeta(page, limit, result.Total),
	}, nil
}

// SubmitPayment validates and inserts a new payment. The record always
// enters the store as PENDING; validation failures reject the submission
// before any store mutation. When the input carries no id the store assigns
// the next one in sequence.
func (s *PaymentService) SubmitPayment(ctx context.Context, input SubmitPaymentInput) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}
	if err := input.validate(); err != nil {
		return domain.Payment{}, err
	}

	id := input.ID
	if id == "" {
		id = s.store.NextID()
	}

	created, err := s.store.Insert(domain.Payment{
		ID:               id,
		Amount:           input.Amount,
		Currency:         input.Currency,
		RecipientName:    input.RecipientName,
		RecipientAccount: input.RecipientAccount,
	})
	if err != nil {
		return domain.Payment{}, err
	}

	metrics.PaymentsCreatedTotal.Inc()
	return created, nil
}

// RetryPayment re-queues a FAILED payment as PENDING. Payments in any other
// status are returned unchanged; unknown ids surface domain.ErrNotFound.
func (s *PaymentService) RetryPayment(ctx context.Context, id string) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}

	metrics.PaymentRetryRequestsTotal.Inc()
	payment, err := s.store.Retry(id)
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// UpdatePaymentStatus applies a status transition to an existing payment.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, id, rawStatus, errorMessage string) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return domain.Payment{}, &ValidationError{Field: "status", Message: err.Error()}
	}

	payment, err := s.store.UpdateStatus(id, status, errorMessage)
	if err != nil {
		return domain.Payment{}, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	return payment, nil
}

// GetPayment fetches a single payment by id.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Payment{}, err
	}

	payment, ok := s.store.FindByID(id)
	if !ok {
		return domain.Payment{}, fmt.Errorf("get %s: %w", id, domain.ErrNotFound)
	}
	return payment, nil
}

// Analytics recomputes the dashboard summary from the current full
// snapshot and refreshes the per-status gauges.
func (s *PaymentService) Analytics(ctx context.Context) (domain.AnalyticsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalyticsSnapshot{}, err
	}

	snapshot := analytics.Compute(s.store.Snapshot(), s.load)
	metrics.PaymentsByStatus.WithLabelValues(string(domain.StatusPending)).Set(float64(snapshot.PendingCount))
	metrics.PaymentsByStatus.WithLabelValues(string(domain.StatusInProgress)).Set(float64(snapshot.InProgressCount))
	metrics.PaymentsByStatus.WithLabelValues(string(domain.StatusCompleted)).Set(float64(snapshot.CompletedCount))
	metrics.PaymentsByStatus.WithLabelValues(string(domain.StatusFailed)).Set(float64(snapshot.FailedCount))
	return snapshot, nil
}

// IsNotFound reports whether err represents a missing payment.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func normalizePagination(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func buildPaginationMeta(page, limit, total int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
		if total > 0 && totalPages == 0 {
			totalPages = 1
		}
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
