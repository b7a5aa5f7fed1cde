package transaction

import (
	"errors"
	"fmt"
	"strings"

	transactionRepo "finzo/database/repository/transaction"
	"finzo/models"
)

var (
	// ErrTransactionNotFound is returned when no transaction has the requested id.
	ErrTransactionNotFound = transactionRepo.ErrNotFound
	// ErrNoChanges is returned when an edit would leave every field as it is.
	ErrNoChanges = errors.New("no changes to apply")
	// ErrInvalidTransaction wraps input validation failures.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

func validateInput(in models.TransactionInput) error {
	if strings.TrimSpace(in.Payee) == "" {
		return fmt.Errorf("%w: payee is required", ErrInvalidTransaction)
	}
	if strings.TrimSpace(in.AccountID) == "" {
		return fmt.Errorf("%w: accountId is required", ErrInvalidTransaction)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidTransaction)
	}
	return nil
}

func wrap(op string, err error) error {
	if errors.Is(err, transactionRepo.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
