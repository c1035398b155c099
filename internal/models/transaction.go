package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a ledger movement on an account. Negative amounts are outflows.
type Transaction struct {
	ID          int64           `json:"id"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
	CreatedAt   string          `json:"created_at"`
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool {
	return !t.Amount.IsPositive()
}
