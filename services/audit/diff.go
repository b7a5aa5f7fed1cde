package audit

import (
	"finzo/models"
	"finzo/utils"
)

// fieldOrder is the display order of the before/after view.
var fieldOrder = []string{"payee", "amount", "categoryId", "date", "notes", "accountId"}

// BuildDiff renders a transaction-linked notification as a field-by-field
// comparison. Fields are only highlighted for edits; accountId never is.
func BuildDiff(n models.Notification) (*models.DiffView, error) {
	change, err := n.TransactionChange()
	if err != nil {
		return nil, err
	}
	before, after := models.Snapshots(change)

	view := &models.DiffView{
		NotificationID: n.ID,
		TransactionID:  n.TransactionID,
		Change:         change.Kind(),
		CanUndo:        canUndo(change),
		Fields:         make([]models.FieldDiff, 0, len(fieldOrder)),
	}
	for _, name := range fieldOrder {
		row := models.FieldDiff{
			Field:  name,
			Before: fieldValue(before, name),
			After:  fieldValue(after, name),
		}
		if name == "amount" {
			if before != nil {
				row.BeforeDisplay = utils.FormatAmount(before.Amount)
			}
			if after != nil {
				row.AfterDisplay = utils.FormatAmount(after.Amount)
			}
		}
		if before != nil && after != nil && name != "accountId" {
			row.Changed = fieldChanged(*before, *after, name)
		}
		view.Fields = append(view.Fields, row)
	}
	return view, nil
}

func canUndo(c models.Change) bool {
	switch c.(type) {
	case models.Edited, models.Deleted:
		return true
	}
	return false
}

func fieldValue(s *models.TransactionSnapshot, name string) any {
	if s == nil {
		return nil
	}
	switch name {
	case "payee":
		return s.Payee
	case "amount":
		return s.Amount
	case "categoryId":
		return optional(s.CategoryID)
	case "date":
		return s.Date.String()
	case "notes":
		return optional(s.Notes)
	case "accountId":
		return s.AccountID
	}
	return nil
}

func fieldChanged(before, after models.TransactionSnapshot, name string) bool {
	switch name {
	case "payee":
		return before.Payee != after.Payee
	case "amount":
		return before.Amount != after.Amount
	case "categoryId":
		return optional(before.CategoryID) != optional(after.CategoryID)
	case "date":
		return !before.Date.Equal(after.Date)
	case "notes":
		return optional(before.Notes) != optional(after.Notes)
	}
	return false
}

// optional flattens a nullable field so nil and a value compare unequal.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
