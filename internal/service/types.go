package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// accountPattern mirrors the dashboard form contract: ACC- followed by digits.
var accountPattern = regexp.MustCompile(`^ACC-\d+$`)

// SubmitPaymentInput is the inbound payload accepted by the submission
// endpoint. ID is optional; when empty the store assigns the next id.
type SubmitPaymentInput struct {
	ID               string
	Amount           decimal.Decimal
	Currency         string
	RecipientName    string
	RecipientAccount string
}

// ValidationError describes a rejected field on an inbound payload.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (in SubmitPaymentInput) validate() error {
	if !in.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "must be greater than 0"}
	}
	if len(strings.TrimSpace(in.RecipientName)) < 2 {
		return &ValidationError{Field: "recipientName", Message: "must be at least 2 characters"}
	}
	if !accountPattern.MatchString(in.RecipientAccount) {
		return &ValidationError{Field: "recipientAccount", Message: "must start with ACC- followed by digits"}
	}
	if strings.TrimSpace(in.Currency) == "" {
		return &ValidationError{Field: "currency", Message: "is required"}
	}
	return nil
}
