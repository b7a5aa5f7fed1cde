package notification

import (
	"fmt"

	"finzo/models"
	"finzo/utils"
)

// CreatedDraft describes a newly created transaction. Positive amounts read as
// a successful payment, everything else as a processed one.
func CreatedDraft(tx models.Transaction) models.NotificationDraft {
	after := tx.Snapshot()
	amount := utils.FormatAmount(tx.Amount)

	d := models.NotificationDraft{
		TransactionID: tx.ID,
		Change:        models.ChangeCreated,
		AfterState:    &after,
	}
	if tx.Amount > 0 {
		d.Type = models.NotificationSuccess
		d.Title = "Transaction Successful"
		d.Message = fmt.Sprintf("Your payment of %s has been processed successfully", amount)
	} else {
		d.Type = models.NotificationWarning
		d.Title = "Transaction Processed"
		d.Message = fmt.Sprintf("A payment of %s has been processed", amount)
	}
	return d
}

// EditedDraft describes an update. When the pre-read failed (before is nil)
// the transactionId is dropped along with the snapshots: a linked record with
// only an after-state would classify as a creation. The unlinked draft stays
// visible in the log and offers no undo.
func EditedDraft(before *models.TransactionSnapshot, after models.Transaction) models.NotificationDraft {
	d := models.NotificationDraft{
		Type:    models.NotificationInfo,
		Title:   "Transaction Updated",
		Message: "A transaction was updated in your account.",
	}
	if before == nil {
		return d
	}
	snap := after.Snapshot()
	d.TransactionID = after.ID
	d.Change = models.ChangeEdited
	d.BeforeState = before
	d.AfterState = &snap
	return d
}

// DeletedDraft describes a removal. As with edits, a missing before-state
// drops the transactionId too, since a linked record must carry a snapshot to
// classify; the result is an unlinked draft with no undo.
func DeletedDraft(id string, before *models.TransactionSnapshot) models.NotificationDraft {
	d := models.NotificationDraft{
		Type:    models.NotificationInfo,
		Title:   "Transaction Deleted",
		Message: "A transaction was deleted from your account.",
	}
	if before == nil {
		return d
	}
	d.TransactionID = id
	d.Change = models.ChangeDeleted
	d.BeforeState = before
	return d
}

// BulkDeletedDraft describes a multi-row delete; it carries no snapshots.
func BulkDeletedDraft() models.NotificationDraft {
	return models.NotificationDraft{
		Type:    models.NotificationInfo,
		Title:   "Transactions Deleted",
		Message: "Multiple transactions were deleted from your account.",
	}
}
