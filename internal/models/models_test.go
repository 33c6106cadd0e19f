package models

import "testing"

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusPending, PaymentStatusLate, true},
		{PaymentStatusLate, PaymentStatusOverdue, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusLate, PaymentStatusRejected, true},
		{PaymentStatusPending, PaymentStatusOverdue, false},
		{PaymentStatusOverdue, PaymentStatusPaid, false},
		{PaymentStatusPaid, PaymentStatusPending, false},
		{PaymentStatusCancelled, PaymentStatusPending, false},
		{PaymentStatusRejected, PaymentStatusPaid, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}

	for _, s := range []PaymentStatus{PaymentStatusPaid, PaymentStatusCancelled, PaymentStatusRejected} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	if PaymentStatusLate.IsTerminal() || PaymentStatusOverdue.IsTerminal() {
		t.Error("late and overdue should not be terminal")
	}
}

func TestLeaseStatusTransitions(t *testing.T) {
	if !LeaseStatusPending.CanTransitionTo(LeaseStatusActive) {
		t.Error("pending -> active should be allowed")
	}
	if !LeaseStatusActive.CanTransitionTo(LeaseStatusTerminated) {
		t.Error("active -> terminated should be allowed")
	}
	if LeaseStatusExpired.CanTransitionTo(LeaseStatusActive) {
		t.Error("expired -> active should be rejected")
	}
	if LeaseStatusActive.CanTransitionTo(LeaseStatusPending) {
		t.Error("active -> pending should be rejected")
	}
}

func TestPaymentFrequencyValid(t *testing.T) {
	for _, f := range PaymentFrequencies {
		if !f.Valid() {
			t.Errorf("expected %s to be valid", f)
		}
	}
	if PaymentFrequency("fortnightly").Valid() {
		t.Error("expected unknown frequency to be invalid")
	}
}
