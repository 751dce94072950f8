package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle stage of a payment.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "PENDING"
	StatusInProgress PaymentStatus = "IN_PROGRESS"
	StatusCompleted  PaymentStatus = "COMPLETED"
	StatusFailed     PaymentStatus = "FAILED"
)

// Statuses lists every valid payment status.
func Statuses() []PaymentStatus {
	return []PaymentStatus{StatusPending, StatusInProgress, StatusCompleted, StatusFailed}
}

// ParseStatus converts a raw string into a PaymentStatus.
func ParseStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(raw) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return PaymentStatus(raw), nil
	}
	return "", fmt.Errorf("unknown payment status %q", raw)
}

// transitions is the closed set of permitted status changes. A payment is
// created PENDING; retry is the only way back out of FAILED.
var transitions = map[PaymentStatus][]PaymentStatus{
	StatusPending:    {StatusInProgress, StatusFailed},
	StatusInProgress: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusPending},
	StatusCompleted:  {},
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment models a single transfer tracked by the operations dashboard.
type Payment struct {
	ID               string
	Amount           decimal.Decimal
	Currency         string
	RecipientName    string
	RecipientAccount string
	Status           PaymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ErrorMessage     string // non-empty only while Status is FAILED
	ProcessingTime   *int64 // seconds, assigned on transition into COMPLETED
}

// Clone returns a deep copy that shares no pointers with the receiver.
func (p Payment) Clone() Payment {
	out := p
	if p.ProcessingTime != nil {
		pt := *p.ProcessingTime
		out.ProcessingTime = &pt
	}
	return out
}

// PaymentListResult captures a filtered page of payments together with the
// total match count before pagination.
type PaymentListResult struct {
	Items []Payment
	Total int
}
