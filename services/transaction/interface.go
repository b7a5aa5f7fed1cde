package transaction

import (
	"context"
	"fmt"

	transactionRepo "finzo/database/repository/transaction"
	"finzo/models"
	"finzo/services/notification"

	"go.uber.org/zap"
)

// TransactionService performs ledger mutations and records each one in the
// notification log.
type TransactionService interface {
	Create(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	Get(ctx context.Context, id string) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	Edit(ctx context.Context, id string, in models.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (int, error)
}

// DefaultTransactionService is the production implementation.
type DefaultTransactionService struct {
	repo    transactionRepo.TransactionRepository
	emitter notification.Emitter
	logger  *zap.Logger
}

func NewDefaultTransactionService(
	repo transactionRepo.TransactionRepository,
	emitter notification.Emitter,
	logger *zap.Logger,
) (*DefaultTransactionService, error) {
	if repo == nil {
		return nil, fmt.Errorf("transaction service initialization error: repository is nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("transaction service initialization error: emitter is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultTransactionService{repo: repo, emitter: emitter, logger: logger}, nil
}
