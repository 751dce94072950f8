package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/natnael/payops/internal/domain"
)

var (
	idPattern      = regexp.MustCompile(`^PAY-\d{6}$`)
	accountPattern = regexp.MustCompile(`^ACC-\d{8}$`)
)

func TestGenerate_RecordInvariants(t *testing.T) {
	gen := New(Config{Count: 50, Seed: 42})

	payments, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(payments) != 50 {
		t.Fatalf("expected 50 payments, got %d", len(payments))
	}

	minAmount := decimal.NewFromInt(100)
	maxAmount := decimal.NewFromInt(100099)
	seen := make(map[string]struct{}, len(payments))

	for _, p := range payments {
		if !idPattern.MatchString(p.ID) {
			t.Fatalf("bad id format: %s", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate id: %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		if !accountPattern.MatchString(p.RecipientAccount) {
			t.Fatalf("bad account format: %s", p.RecipientAccount)
		}
		if p.Currency != "ETB" {
			t.Fatalf("unexpected currency: %s", p.Currency)
		}
		if p.RecipientName == "" {
			t.Fatalf("empty recipient for %s", p.ID)
		}
		if p.Amount.LessThan(minAmount) || p.Amount.GreaterThan(maxAmount) {
			t.Fatalf("amount %s out of range for %s", p.Amount, p.ID)
		}

		switch p.Status {
		case domain.StatusCompleted:
			if p.ProcessingTime == nil {
				t.Fatalf("completed payment %s has no processing time", p.ID)
			}
			if *p.ProcessingTime < 30 || *p.ProcessingTime > 3629 {
				t.Fatalf("processing time %d out of range for %s", *p.ProcessingTime, p.ID)
			}
			if p.UpdatedAt.Before(p.CreatedAt) {
				t.Fatalf("completed payment %s updated before created", p.ID)
			}
		case domain.StatusFailed:
			if p.ErrorMessage == "" {
				t.Fatalf("failed payment %s has no error message", p.ID)
			}
		default:
			if p.ErrorMessage != "" || p.ProcessingTime != nil {
				t.Fatalf("payment %s in status %s carries terminal fields", p.ID, p.Status)
			}
		}
	}
}

func TestGenerate_SortedNewestFirst(t *testing.T) {
	gen := New(Config{Count: 25, Seed: 7})

	payments, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for i := 1; i < len(payments); i++ {
		if payments[i].CreatedAt.After(payments[i-1].CreatedAt) {
			t.Fatalf("payments not sorted newest first at index %d", i)
		}
	}
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	first, err := New(Config{Count: 10, Seed: 99}).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := New(Config{Count: 10, Seed: 99}).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID ||
			first[i].Status != second[i].Status ||
			!first[i].Amount.Equal(second[i].Amount) ||
			first[i].RecipientAccount != second[i].RecipientAccount {
			t.Fatalf("runs diverge at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerate_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(Config{Count: 5, Seed: 1}).Generate(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestWriteDataset_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	payments, err := New(Config{Count: 5, Seed: 3}).Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if err := WriteDataset(payments, dir); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "payments.json"))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode dataset: %v", err)
	}
	if len(records) != len(payments) {
		t.Fatalf("expected %d records, got %d", len(payments), len(records))
	}
	if records[0].ID != payments[0].ID {
		t.Fatalf("record order differs from input: %s vs %s", records[0].ID, payments[0].ID)
	}
}
