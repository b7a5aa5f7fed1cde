package transaction

import (
	"context"
	"fmt"

	"finzo/models"
	"finzo/services/notification"

	"go.uber.org/zap"
)

func (s *DefaultTransactionService) Create(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	tx, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	s.logger.Info("transaction created", zap.String("transactionId", tx.ID))
	s.emitter.Emit(ctx, notification.CreatedDraft(*tx))
	return tx, nil
}

func (s *DefaultTransactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("Get", err)
	}
	return tx, nil
}

func (s *DefaultTransactionService) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	txs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return txs, nil
}

// Edit replaces every field of id with in. When the before-state was readable
// and nothing would change, it returns ErrNoChanges without writing.
func (s *DefaultTransactionService) Edit(ctx context.Context, id string, in models.TransactionInput) (*models.Transaction, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	before := s.captureSnapshot(ctx, id)
	if before != nil && !before.Differs(in) {
		return nil, ErrNoChanges
	}

	tx, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, wrap("Edit", err)
	}
	s.logger.Info("transaction updated", zap.String("transactionId", id))
	s.emitter.Emit(ctx, notification.EditedDraft(before, *tx))
	return tx, nil
}

func (s *DefaultTransactionService) Delete(ctx context.Context, id string) error {
	before := s.captureSnapshot(ctx, id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrap("Delete", err)
	}
	s.logger.Info("transaction deleted", zap.String("transactionId", id))
	s.emitter.Emit(ctx, notification.DeletedDraft(id, before))
	return nil
}

// BulkDelete removes every listed id that exists. A single summary
// notification is emitted when at least one row went away.
func (s *DefaultTransactionService) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("BulkDelete: %w", err)
	}
	if n > 0 {
		s.logger.Info("transactions deleted", zap.Int("count", n))
		s.emitter.Emit(ctx, notification.BulkDeletedDraft())
	}
	return n, nil
}
