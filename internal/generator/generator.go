package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natnael/payops/internal/domain"
)

const failureMessage = "Insufficient funds in account"

// Generator produces synthetic payment records for seeding the store and
// exercising the dashboard.
type Generator struct {
	cfg        Config
	rand       *rand.Rand
	recipients []string
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.Count <= 0 {
		cfg.Count = DefaultConfig().Count
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
		recipients: []string{
			"Abebe Kebede",
			"Solomon Alemu",
			"Tihtina Tsegaye",
			"Bontu Merga",
			"Yonas Tesfaye",
		},
	}
}

// Generate synthesises payments, newest first. It respects context
// cancellation for large counts.
func (g *Generator) Generate(ctx context.Context) ([]domain.Payment, error) {
	statuses := domain.Statuses()
	now := time.Now().UTC()
	payments := make([]domain.Payment, g.cfg.Count)

	for i := 0; i < g.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		status := statuses[g.rand.Intn(len(statuses))]
		createdAt := now.Add(-time.Duration(g.rand.Int63n(int64(7 * 24 * time.Hour))))

		p := domain.Payment{
			ID:               fmt.Sprintf("PAY-%06d", i+1),
			Amount:           decimal.NewFromInt(int64(g.rand.Intn(100000)) + 100),
			Currency:         "ETB",
			RecipientName:    g.recipients[g.rand.Intn(len(g.recipients))],
			RecipientAccount: fmt.Sprintf("ACC-%08d", g.rand.Intn(1000000)),
			Status:           status,
			CreatedAt:        createdAt,
			UpdatedAt:        createdAt,
		}

		switch status {
		case domain.StatusCompleted:
			p.UpdatedAt = createdAt.Add(time.Duration(g.rand.Int63n(int64(time.Hour))))
			pt := int64(g.rand.Intn(3600)) + 30
			p.ProcessingTime = &pt
		case domain.StatusFailed:
			p.ErrorMessage = failureMessage
		}

		payments[i] = p
	}

	sort.Slice(payments, func(a, b int) bool {
		return payments[a].CreatedAt.After(payments[b].CreatedAt)
	})
	return payments, nil
}
