package transactionRepo

import (
	"context"
	"sync"
	"time"

	"finzo/models"

	"github.com/google/uuid"
)

type memoryTransactionRepo struct {
	mu    sync.RWMutex
	items map[string]models.Transaction
	now   func() time.Time
}

// NewMemoryTransactionRepo returns a process-lifetime repository.
func NewMemoryTransactionRepo() TransactionRepository {
	return &memoryTransactionRepo{
		items: make(map[string]models.Transaction),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryTransactionRepo) Create(_ context.Context, in models.TransactionInput) (*models.Transaction, error) {
	now := r.now()
	tx := fromInput(uuid.New().String(), in)
	tx.CreatedAt = now
	tx.UpdatedAt = now

	r.mu.Lock()
	r.items[tx.ID] = tx
	r.mu.Unlock()

	out := cloneTransaction(tx)
	return &out, nil
}

func (r *memoryTransactionRepo) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneTransaction(tx)
	return &out, nil
}

func (r *memoryTransactionRepo) List(_ context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	r.mu.RLock()
	out := make([]models.Transaction, 0, len(r.items))
	for _, tx := range r.items {
		if filter.Matches(tx) {
			out = append(out, cloneTransaction(tx))
		}
	}
	r.mu.RUnlock()

	sortByDateDesc(out)
	return out, nil
}

func (r *memoryTransactionRepo) Update(_ context.Context, id string, in models.TransactionInput) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	tx := fromInput(id, in)
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = r.now()
	r.items[id] = tx

	out := cloneTransaction(tx)
	return &out, nil
}

func (r *memoryTransactionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memoryTransactionRepo) DeleteMany(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := r.items[id]; ok {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}

func fromInput(id string, in models.TransactionInput) models.Transaction {
	return cloneTransaction(models.Transaction{
		ID:         id,
		Payee:      in.Payee,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Date:       in.Date,
		Notes:      in.Notes,
	})
}

func cloneTransaction(tx models.Transaction) models.Transaction {
	s := tx.Snapshot()
	tx.CategoryID = s.CategoryID
	tx.Notes = s.Notes
	return tx
}
