package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ARAPKind distinguishes receivables from payables
type ARAPKind string

const (
	Receivable ARAPKind = "receivable"
	Payable    ARAPKind = "payable"
)

// Valid reports whether k is a known kind
func (k ARAPKind) Valid() bool {
	return k == Receivable || k == Payable
}

// ParseARAPKind converts a raw string into an ARAPKind
func ParseARAPKind(s string) (ARAPKind, error) {
	k := ARAPKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown item kind %q", s)
	}
	return k, nil
}

// ARAPItem represents a receivable or payable. AgeDays is the bucketing key
// for the "due within N days" windows.
type ARAPItem struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Kind         ARAPKind        `json:"kind"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	AgeDays      int             `json:"age_days"`
	Status       string          `json:"status"` // pending, overdue, paid
	CreatedAt    string          `json:"created_at"`
}
