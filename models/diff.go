package models

// FieldDiff is one row of the before/after view.
type FieldDiff struct {
	Field         string `json:"field"`
	Before        any    `json:"before"`
	After         any    `json:"after"`
	BeforeDisplay string `json:"beforeDisplay,omitempty"`
	AfterDisplay  string `json:"afterDisplay,omitempty"`
	Changed       bool   `json:"changed"`
}

// DiffView is the detail rendering of a transaction-linked notification.
type DiffView struct {
	NotificationID string      `json:"notificationId"`
	TransactionID  string      `json:"transactionId"`
	Change         ChangeKind  `json:"change"`
	CanUndo        bool        `json:"canUndo"`
	Fields         []FieldDiff `json:"fields"`
}

// ChangedFields lists the names of highlighted fields.
func (v DiffView) ChangedFields() []string {
	var out []string
	for _, f := range v.Fields {
		if f.Changed {
			out = append(out, f.Field)
		}
	}
	return out
}

// UndoAction names the compensating mutation an undo performed.
type UndoAction string

const (
	UndoRecreated UndoAction = "recreated"
	UndoReverted  UndoAction = "reverted"
)

// UndoResult is returned by a successful undo.
type UndoResult struct {
	NotificationID string       `json:"notificationId"`
	Action         UndoAction   `json:"action"`
	Transaction    *Transaction `json:"transaction"`
}
