package transactionRepo

import (
	"context"
	"errors"
	"sort"

	"finzo/models"
)

// ErrNotFound is returned when no transaction has the requested id.
var ErrNotFound = errors.New("transaction not found")

// TransactionRepository persists transactions.
type TransactionRepository interface {
	// Create stores tx under a fresh id and returns the stored record.
	Create(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	// List returns matching transactions, most recent date first.
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	// Update replaces every editable field of id and returns the stored record.
	Update(ctx context.Context, id string, in models.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	// DeleteMany removes every listed id that exists and reports how many were removed.
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

func sortByDateDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
}
