package audit

import (
	"context"
	"fmt"

	"finzo/models"
	"finzo/services/notification"
	"finzo/services/transaction"

	"go.uber.org/zap"
)

// Resolver reverses the change a notification records.
type Resolver struct {
	notifications notification.NotificationService
	transactions  transaction.TransactionService
	logger        *zap.Logger
}

func NewResolver(
	notifications notification.NotificationService,
	transactions transaction.TransactionService,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{notifications: notifications, transactions: transactions, logger: logger}
}

// Diff loads a notification and renders its before/after view.
func (r *Resolver) Diff(ctx context.Context, notificationID string) (*models.DiffView, error) {
	n, err := r.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	return BuildDiff(*n)
}

// Undo performs the compensating mutation for the notification's change. A
// deletion is undone by creating a new row from the before-state, so repeating
// it creates duplicates. An edit is undone by writing the before-state over the
// current row, discarding any later edits. The notification itself is never
// modified, whatever the outcome.
func (r *Resolver) Undo(ctx context.Context, notificationID string) (*models.UndoResult, error) {
	n, err := r.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	change, err := n.TransactionChange()
	if err != nil {
		return nil, err
	}

	log := r.logger.With(zap.String("notificationId", n.ID), zap.String("transactionId", n.TransactionID))

	switch c := change.(type) {
	case models.Deleted:
		tx, err := r.transactions.Create(ctx, c.Before.Input())
		if err != nil {
			log.Error("undo of delete failed", zap.Error(err))
			return nil, fmt.Errorf("Undo: recreate: %w", err)
		}
		log.Info("deleted transaction recreated", zap.String("newTransactionId", tx.ID))
		return &models.UndoResult{NotificationID: n.ID, Action: models.UndoRecreated, Transaction: tx}, nil

	case models.Edited:
		tx, err := r.transactions.Edit(ctx, n.TransactionID, c.Before.Input())
		if err != nil {
			log.Warn("undo of edit failed", zap.Error(err))
			return nil, fmt.Errorf("Undo: revert: %w", err)
		}
		log.Info("edited transaction reverted")
		return &models.UndoResult{NotificationID: n.ID, Action: models.UndoReverted, Transaction: tx}, nil

	default:
		return nil, ErrUndoUnavailable
	}
}
