package models

import (
	"errors"
	"fmt"
)

// ChangeKind tags which transaction mutation a notification records.
type ChangeKind string

const (
	ChangeNone    ChangeKind = ""
	ChangeCreated ChangeKind = "created"
	ChangeEdited  ChangeKind = "edited"
	ChangeDeleted ChangeKind = "deleted"
)

var (
	// ErrInvalidChange means the snapshots present do not match any mutation shape.
	ErrInvalidChange = errors.New("snapshots do not describe a created, edited or deleted transaction")
	// ErrNotTransactionLinked means the notification carries no transaction change.
	ErrNotTransactionLinked = errors.New("notification is not linked to a transaction change")
)

// Change is one of Created, Edited or Deleted.
type Change interface {
	Kind() ChangeKind
	isChange()
}

// Created records a new transaction; only the resulting state exists.
type Created struct {
	After TransactionSnapshot
}

// Edited records an update with the state on both sides of the write.
type Edited struct {
	Before TransactionSnapshot
	After  TransactionSnapshot
}

// Deleted records a removal; only the prior state exists.
type Deleted struct {
	Before TransactionSnapshot
}

func (Created) Kind() ChangeKind { return ChangeCreated }
func (Edited) Kind() ChangeKind  { return ChangeEdited }
func (Deleted) Kind() ChangeKind { return ChangeDeleted }

func (Created) isChange() {}
func (Edited) isChange()  {}
func (Deleted) isChange() {}

// KindOf infers the change kind from which snapshots are present.
func KindOf(before, after *TransactionSnapshot) (ChangeKind, error) {
	switch {
	case before == nil && after != nil:
		return ChangeCreated, nil
	case before != nil && after != nil:
		return ChangeEdited, nil
	case before != nil && after == nil:
		return ChangeDeleted, nil
	default:
		return ChangeNone, ErrInvalidChange
	}
}

// NewChange builds the variant for kind, checking that the snapshots match it.
func NewChange(kind ChangeKind, before, after *TransactionSnapshot) (Change, error) {
	inferred, err := KindOf(before, after)
	if err != nil {
		return nil, err
	}
	if kind != inferred {
		return nil, fmt.Errorf("%w: tagged %q but snapshots describe %q", ErrInvalidChange, kind, inferred)
	}
	switch kind {
	case ChangeCreated:
		return Created{After: *after}, nil
	case ChangeEdited:
		return Edited{Before: *before, After: *after}, nil
	default:
		return Deleted{Before: *before}, nil
	}
}

// Snapshots returns the before and after pointers stored for c.
func Snapshots(c Change) (before, after *TransactionSnapshot) {
	switch v := c.(type) {
	case Created:
		return nil, &v.After
	case Edited:
		return &v.Before, &v.After
	case Deleted:
		return &v.Before, nil
	}
	return nil, nil
}
