package models

import "time"

// Transaction is a single ledger entry. Amount is stored in thousandths of the
// display currency unit.
type Transaction struct {
	ID         string    `json:"id"`
	Payee      string    `json:"payee"`
	Amount     int64     `json:"amount"`
	CategoryID *string   `json:"categoryId"`
	AccountID  string    `json:"accountId"`
	Date       Date      `json:"date"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TransactionInput is the create/edit request shape. Edits replace every field.
type TransactionInput struct {
	Payee      string  `json:"payee" binding:"required"`
	Amount     int64   `json:"amount"`
	CategoryID *string `json:"categoryId"`
	AccountID  string  `json:"accountId" binding:"required"`
	Date       Date    `json:"date"`
	Notes      *string `json:"notes"`
}

// TransactionFilter narrows transaction listings. Zero values match everything.
type TransactionFilter struct {
	AccountID  string
	CategoryID string
	From       Date
	To         Date
}

// Matches reports whether tx satisfies every set criterion.
func (f TransactionFilter) Matches(tx Transaction) bool {
	if f.AccountID != "" && tx.AccountID != f.AccountID {
		return false
	}
	if f.CategoryID != "" && (tx.CategoryID == nil || *tx.CategoryID != f.CategoryID) {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To.Time) {
		return false
	}
	return true
}

// Snapshot captures the audited fields of tx.
func (tx Transaction) Snapshot() TransactionSnapshot {
	return TransactionSnapshot{
		Payee:      tx.Payee,
		Amount:     tx.Amount,
		CategoryID: cloneString(tx.CategoryID),
		AccountID:  tx.AccountID,
		Date:       tx.Date,
		Notes:      cloneString(tx.Notes),
	}
}

// Input returns the create/edit request that would reproduce tx's fields.
func (tx Transaction) Input() TransactionInput {
	return tx.Snapshot().Input()
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a convenience for optional string fields.
func StringPtr(s string) *string {
	return &s
}
