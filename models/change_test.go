package models

import (
	"errors"
	"testing"
)

func snap(payee string, amount int64) *TransactionSnapshot {
	return &TransactionSnapshot{
		Payee:     payee,
		Amount:    amount,
		AccountID: "a1",
		Date:      NewDate(2024, 1, 5),
	}
}

func TestKindOfClassifiesEveryShape(t *testing.T) {
	cases := []struct {
		name          string
		before, after *TransactionSnapshot
		want          ChangeKind
		wantErr       bool
	}{
		{"only after", nil, snap("Coffee", -450), ChangeCreated, false},
		{"both", snap("Coffee", -450), snap("Coffee", -500), ChangeEdited, false},
		{"only before", snap("Coffee", -450), nil, ChangeDeleted, false},
		{"neither", nil, nil, ChangeNone, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := KindOf(tc.before, tc.after)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidChange) {
					t.Fatalf("expected ErrInvalidChange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
		})
	}
}

func TestNewChangeRejectsMismatchedTag(t *testing.T) {
	_, err := NewChange(ChangeEdited, snap("Coffee", -450), nil)
	if !errors.Is(err, ErrInvalidChange) {
		t.Fatalf("expected ErrInvalidChange, got %v", err)
	}
}

func TestNewChangeVariants(t *testing.T) {
	before, after := snap("Rent", 1000), snap("Rent", 1500)

	c, err := NewChange(ChangeEdited, before, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	edited, ok := c.(Edited)
	if !ok {
		t.Fatalf("expected Edited, got %T", c)
	}
	if edited.Before.Amount != 1000 || edited.After.Amount != 1500 {
		t.Fatalf("snapshots not carried: %+v", edited)
	}

	b, a := Snapshots(edited)
	if b == nil || a == nil || b.Amount != 1000 || a.Amount != 1500 {
		t.Fatalf("Snapshots returned %v %v", b, a)
	}

	c, err = NewChange(ChangeDeleted, before, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.(Deleted); !ok {
		t.Fatalf("expected Deleted, got %T", c)
	}
	if b, a := Snapshots(c); b == nil || a != nil {
		t.Fatalf("deleted change should only carry before, got %v %v", b, a)
	}
}

func TestSnapshotDiffersIgnoresPointerIdentity(t *testing.T) {
	s := TransactionSnapshot{
		Payee:      "Coffee",
		Amount:     -450,
		CategoryID: StringPtr("c2"),
		AccountID:  "a1",
		Date:       NewDate(2024, 1, 5),
	}
	in := s.Input()
	if s.Differs(in) {
		t.Fatalf("identical input reported as different")
	}
	in.Notes = StringPtr("")
	if !s.Differs(in) {
		t.Fatalf("nil vs empty notes should differ")
	}
}
