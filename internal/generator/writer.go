package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/natnael/payops/internal/domain"
)

// Record is the serialized form of a payment in a dataset file. The
// submission fields match the POST /payments payload so datasets can be
// replayed through the API by the ingest tool.
type Record struct {
	ID               string          `json:"id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RecipientName    string          `json:"recipientName"`
	RecipientAccount string          `json:"recipientAccount"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
	ErrorMessage     string          `json:"errorMessage,omitempty"`
	ProcessingTime   *int64          `json:"processingTime,omitempty"`
}

// WriteDataset serializes the payments into payments.json under the
// provided directory.
func WriteDataset(payments []domain.Payment, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, "payments.json")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ToRecords(payments)); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}

// ToRecords converts domain payments into their dataset representation.
func ToRecords(payments []domain.Payment) []Record {
	records := make([]Record, 0, len(payments))
	for _, p := range payments {
		records = append(records, Record{
			ID:               p.ID,
			Amount:           p.Amount,
			Currency:         p.Currency,
			RecipientName:    p.RecipientName,
			RecipientAccount: p.RecipientAccount,
			Status:           string(p.Status),
			CreatedAt:        p.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:        p.UpdatedAt.UTC().Format(time.RFC3339),
			ErrorMessage:     p.ErrorMessage,
			ProcessingTime:   p.ProcessingTime,
		})
	}
	return records
}
