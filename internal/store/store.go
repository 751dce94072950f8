// Package store holds the canonical in-memory payment collection. It is the
// only mutation path for payment records; every read hands out defensive
// copies so callers can never alias store-owned state.
package store

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/natnael/payops/internal/domain"
)

// ListOptions narrows and pages the payment collection.
type ListOptions struct {
	Status domain.PaymentStatus // zero value means no status filter
	Search string
	Offset int
	Limit  int
}

// Store is a mutex-guarded, newest-first collection of payments. All
// operations are safe for concurrent use; reads copy under the read lock so
// snapshots are atomic with respect to in-flight mutations.
type Store struct {
	mu       sync.RWMutex
	payments []domain.Payment
	nextSeq  int

	nowFn            func() time.Time
	processingTimeFn func() int64
}

// New constructs a Store pre-populated with the provided payments. The seed
// slice is copied; ordering is preserved and expected to be newest first.
// The id sequence continues past the highest seeded PAY-number.
func New(seed []domain.Payment) *Store {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := &Store{
		payments: make([]domain.Payment, 0, len(seed)),
		nextSeq:  1,
		nowFn:    time.Now,
		processingTimeFn: func() int64 {
			// Simulated completion report, same range the mock generator uses.
			return int64(rng.Intn(3600)) + 30
		},
	}
	for _, p := range seed {
		s.payments = append(s.payments, p.Clone())
		if seq, ok := parseSeq(p.ID); ok && seq >= s.nextSeq {
			s.nextSeq = seq + 1
		}
	}
	return s
}

// WithClock overrides the time provider (used primarily in tests).
func (s *Store) WithClock(nowFn func() time.Time) *Store {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// WithProcessingTime overrides the simulated processing-time source.
func (s *Store) WithProcessingTime(fn func() int64) *Store {
	if fn != nil {
		s.processingTimeFn = fn
	}
	return s
}

// List returns the payments matching the provided filters, newest first,
// together with the total match count before the offset/limit window.
func (s *Store) List(opts ListOptions) domain.PaymentListResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(opts.Search))
	matched := make([]int, 0, len(s.payments))
	for i, p := range s.payments {
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		if query != "" && !matchesSearch(p, query) {
			continue
		}
		matched = append(matched, i)
	}

	total := len(matched)
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return domain.PaymentListResult{Items: []domain.Payment{}, Total: total}
	}
	end := total
	if opts.Limit > 0 && offset+opts.Limit < end {
		end = offset + opts.Limit
	}

	items := make([]domain.Payment, 0, end-offset)
	for _, idx := range matched[offset:end] {
		items = append(items, s.payments[idx].Clone())
	}
	return domain.PaymentListResult{Items: items, Total: total}
}

// Snapshot returns a full copy of the collection in store order.
func (s *Store) Snapshot() []domain.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		out = append(out, p.Clone())
	}
	return out
}

// FindByID looks up a payment by exact, case-sensitive id match.
func (s *Store) FindByID(id string) (domain.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payments {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return domain.Payment{}, false
}

// Len reports the current number of payments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}

// NextID reserves and returns the next payment id in sequence.
func (s *Store) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("PAY-%06d", s.nextSeq)
	s.nextSeq++
	return id
}

// Insert prepends a new payment. The record always enters the store as
// PENDING with both timestamps set to now; any lifecycle fields supplied by
// the caller are discarded.
func (s *Store) Insert(p domain.Payment) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.payments {
		if existing.ID == p.ID {
			return domain.Payment{}, fmt.Errorf("insert %s: %w", p.ID, domain.ErrDuplicateID)
		}
	}

	now := s.nowFn().UTC()
	record := p.Clone()
	record.Status = domain.StatusPending
	record.CreatedAt = now
	record.UpdatedAt = now
	record.ErrorMessage = ""
	record.ProcessingTime = nil

	s.payments = append([]domain.Payment{record}, s.payments...)
	if seq, ok := parseSeq(record.ID); ok && seq >= s.nextSeq {
		s.nextSeq = seq + 1
	}
	return record.Clone(), nil
}

// UpdateStatus moves a payment to the requested status, enforcing the
// transition table. ErrorMessage is retained only when the new status is
// FAILED; a transition into COMPLETED assigns the simulated processing time.
func (s *Store) UpdateStatus(id string, status domain.PaymentStatus, errorMessage string) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Payment{}, fmt.Errorf("update %s: %w", id, domain.ErrNotFound)
	}

	p := &s.payments[idx]
	if !p.Status.CanTransitionTo(status) {
		return domain.Payment{}, fmt.Errorf("update %s: %s -> %s: %w", id, p.Status, status, domain.ErrInvalidTransition)
	}

	p.Status = status
	p.UpdatedAt = s.nowFn().UTC()
	if status == domain.StatusFailed {
		p.ErrorMessage = errorMessage
	} else {
		p.ErrorMessage = ""
	}
	if status == domain.StatusCompleted {
		pt := s.processingTimeFn()
		if pt < 0 {
			pt = 0
		}
		p.ProcessingTime = &pt
	}
	return p.Clone(), nil
}

// Retry resets a FAILED payment back to PENDING and clears its error
// message. Payments in any other status are returned unchanged, which makes
// the operation idempotent.
func (s *Store) Retry(id string) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Payment{}, fmt.Errorf("retry %s: %w", id, domain.ErrNotFound)
	}

	p := &s.payments[idx]
	if p.Status != domain.StatusFailed {
		return p.Clone(), nil
	}

	p.Status = domain.StatusPending
	p.ErrorMessage = ""
	p.UpdatedAt = s.nowFn().UTC()
	return p.Clone(), nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.payments {
		if s.payments[i].ID == id {
			return i
		}
	}
	return -1
}

func matchesSearch(p domain.Payment, query string) bool {
	return strings.Contains(strings.ToLower(p.ID), query) ||
		strings.Contains(strings.ToLower(p.RecipientName), query) ||
		strings.Contains(strings.ToLower(p.RecipientAccount), query)
}

func parseSeq(id string) (int, bool) {
	const prefix = "PAY-"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(id[len(prefix):])
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}
