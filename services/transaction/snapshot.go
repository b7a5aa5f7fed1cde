package transaction

import (
	"context"

	"finzo/models"

	"go.uber.org/zap"
)

// captureSnapshot reads the current state of id ahead of a mutation. A failed
// read is logged and yields nil; the mutation still goes ahead.
func (s *DefaultTransactionService) captureSnapshot(ctx context.Context, id string) *models.TransactionSnapshot {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("could not capture transaction state before mutation",
			zap.String("transactionId", id),
			zap.Error(err),
		)
		return nil
	}
	snap := tx.Snapshot()
	return &snap
}
