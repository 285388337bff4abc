package workflow

import (
	"testing"
	"time"

	"github.com/kalens/playbook/internal/signal"
)

func TestNewInstanceDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inst := NewInstance(TypeRenewal, "acct-1", "op-1", "renewal stage is negotiation", now)

	if inst.ID == "" {
		t.Fatal("expected generated id")
	}
	if inst.Status != StatusPending {
		t.Fatalf("expected pending, got %s", inst.Status)
	}
	if inst.Factors != NeutralFactors() {
		t.Fatalf("expected neutral factors, got %+v", inst.Factors)
	}
	if !inst.CreatedAt.Equal(now) || !inst.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps %v, got %v / %v", now, inst.CreatedAt, inst.UpdatedAt)
	}

	other := NewInstance(TypeRenewal, "acct-1", "op-1", "", now)
	if other.ID == inst.ID {
		t.Fatal("expected unique ids")
	}
}

func TestTransition(t *testing.T) {
	now := time.Now()
	inst := NewInstance(TypeRisk, "acct-1", "", "", now)

	later := now.Add(time.Hour)
	if err := inst.Transition(StatusInProgress, later); err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if inst.Status != StatusInProgress || !inst.UpdatedAt.Equal(later) {
		t.Fatalf("transition did not apply: %+v", inst)
	}

	if err := inst.Transition(StatusCompleted, later); err != nil {
		t.Fatalf("Transition returned error: %v", err)
	}
	if err := inst.Transition(StatusInProgress, later); err == nil {
		t.Fatal("expected error leaving terminal status")
	}
	if inst.Status != StatusCompleted {
		t.Fatalf("failed transition mutated status to %s", inst.Status)
	}
}

func TestStatusTerminal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusCompletedWithSnooze, StatusSkipped, StatusFailed}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Fatal("expected pending and in_progress to be non-terminal")
	}
}

func TestNewAssignmentDenormalizes(t *testing.T) {
	now := time.Now()
	plan := signal.PlanExpand
	days := 15
	sig := signal.AccountSignal{
		AccountID:        "acct-1",
		AccountName:      "Acme",
		OwnerID:          "op-1",
		ARR:              120_000,
		RenewalStage:     signal.StageProposalSent,
		Plan:             &plan,
		DaysUntilRenewal: &days,
	}
	op := signal.OperatorProfile{OperatorID: "op-1", Tier: signal.TierMid}
	inst := NewInstance(TypeRenewal, sig.AccountID, sig.OwnerID, "", now)

	asn := NewAssignment(inst, sig, &op)
	if asn.AccountName != "Acme" || asn.ARR != 120_000 || asn.RenewalStage != signal.StageProposalSent {
		t.Fatalf("denormalized fields wrong: %+v", asn)
	}
	if asn.Operator == nil || asn.Operator.OperatorID != "op-1" {
		t.Fatalf("expected operator clone, got %+v", asn.Operator)
	}

	// The assignment must not alias the caller's pointers.
	*sig.DaysUntilRenewal = 99
	if *asn.Account.DaysUntilRenewal != 15 || *asn.DaysUntilRenewal != 15 {
		t.Fatalf("assignment aliased the signal: %+v", asn)
	}

	bare := NewAssignment(inst, signal.AccountSignal{AccountID: "acct-2"}, nil)
	if bare.Operator != nil {
		t.Fatalf("expected nil operator, got %+v", bare.Operator)
	}
}
