package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natnael/payops/internal/domain"
)

func payment(id string, status domain.PaymentStatus, processingTime *int64) domain.Payment {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return domain.Payment{
		ID:               id,
		Amount:           decimal.NewFromInt(100),
		Currency:         "ETB",
		RecipientName:    "Abebe Kebede",
		RecipientAccount: "ACC-00000001",
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
		ProcessingTime:   processingTime,
	}
}

func TestCompute_StatusCounts(t *testing.T) {
	pt := int64(90)
	payments := []domain.Payment{
		payment("PAY-000001", domain.StatusFailed, nil),
		payment("PAY-000002", domain.StatusCompleted, &pt),
	}

	snapshot := Compute(payments, FixedIndicator{Current: 1.5, Max: 2.0})

	if snapshot.TotalPayments != 2 {
		t.Fatalf("expected total 2, got %d", snapshot.TotalPayments)
	}
	if snapshot.CompletedCount != 1 || snapshot.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", snapshot)
	}
	if snapshot.PendingCount != 0 || snapshot.InProgressCount != 0 {
		t.Fatalf("unexpected counts: %+v", snapshot)
	}
	if snapshot.AverageProcessingTime != 90 {
		t.Fatalf("expected average 90, got %f", snapshot.AverageProcessingTime)
	}
}

func TestCompute_AverageOverMultipleCompleted(t *testing.T) {
	pt1, pt2 := int64(60), int64(120)
	payments := []domain.Payment{
		payment("PAY-000001", domain.StatusCompleted, &pt1),
		payment("PAY-000002", domain.StatusCompleted, &pt2),
		payment("PAY-000003", domain.StatusPending, nil),
	}

	snapshot := Compute(payments, FixedIndicator{})

	if snapshot.AverageProcessingTime != 90 {
		t.Fatalf("expected average 90, got %f", snapshot.AverageProcessingTime)
	}
}

func TestCompute_AverageIsZeroWithoutCompleted(t *testing.T) {
	payments := []domain.Payment{
		payment("PAY-000001", domain.StatusPending, nil),
		payment("PAY-000002", domain.StatusFailed, nil),
	}

	snapshot := Compute(payments, FixedIndicator{})

	if snapshot.AverageProcessingTime != 0 {
		t.Fatalf("expected average 0, got %f", snapshot.AverageProcessingTime)
	}
}

func TestCompute_EmptySnapshot(t *testing.T) {
	snapshot := Compute(nil, FixedIndicator{Current: 0.5, Max: 2.0})

	if snapshot.TotalPayments != 0 || snapshot.AverageProcessingTime != 0 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.CurrentTPS != 0.5 || snapshot.MaxTPS != 2.0 {
		t.Fatalf("indicator values not applied: %+v", snapshot)
	}
}

func TestSimulatedIndicator_DeterministicWithSeed(t *testing.T) {
	a := NewSimulatedIndicator(7)
	b := NewSimulatedIndicator(7)

	for i := 0; i < 10; i++ {
		curA, maxA := a.Sample()
		curB, maxB := b.Sample()
		if curA != curB || maxA != maxB {
			t.Fatalf("samples diverged at %d: (%f,%f) vs (%f,%f)", i, curA, maxA, curB, maxB)
		}
		if curA < 0.5 || curA >= 3.5 {
			t.Fatalf("sample %f outside [0.5, 3.5)", curA)
		}
		if maxA != 2.0 {
			t.Fatalf("expected max 2.0, got %f", maxA)
		}
	}
}
