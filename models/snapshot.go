package models

// TransactionSnapshot is a flat record of a transaction's audited fields at a
// point in time. Amount keeps the stored scaled representation.
type TransactionSnapshot struct {
	Payee      string  `json:"payee"`
	Amount     int64   `json:"amount"`
	CategoryID *string `json:"categoryId"`
	AccountID  string  `json:"accountId"`
	Date       Date    `json:"date"`
	Notes      *string `json:"notes"`
}

// Input maps the snapshot back onto the create/edit request shape.
func (s TransactionSnapshot) Input() TransactionInput {
	return TransactionInput{
		Payee:      s.Payee,
		Amount:     s.Amount,
		CategoryID: cloneString(s.CategoryID),
		AccountID:  s.AccountID,
		Date:       s.Date,
		Notes:      cloneString(s.Notes),
	}
}

// Equal compares every audited field.
func (s TransactionSnapshot) Equal(o TransactionSnapshot) bool {
	return s.Payee == o.Payee &&
		s.Amount == o.Amount &&
		equalOptional(s.CategoryID, o.CategoryID) &&
		s.AccountID == o.AccountID &&
		s.Date.Equal(o.Date) &&
		equalOptional(s.Notes, o.Notes)
}

// Differs reports whether applying in to the snapshot would change any field.
func (s TransactionSnapshot) Differs(in TransactionInput) bool {
	return !s.Equal(TransactionSnapshot{
		Payee:      in.Payee,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Date:       in.Date,
		Notes:      in.Notes,
	})
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Clone returns a deep copy.
func (s TransactionSnapshot) Clone() TransactionSnapshot {
	s.CategoryID = cloneString(s.CategoryID)
	s.Notes = cloneString(s.Notes)
	return s
}
