package scoring

import (
	"testing"

	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	scorer, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return scorer
}

func renewalInstance(accountID string) workflow.Instance {
	return workflow.Instance{ID: "inst-1", Type: workflow.TypeRenewal, AccountID: accountID}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	params := DefaultParams()
	params.UrgencyWindowDays = 0
	if _, err := New(params); err == nil {
		t.Fatal("expected error for zero urgency window")
	}
}

func TestScoreNeutralSignal(t *testing.T) {
	scorer := newTestScorer(t)
	sig := signal.AccountSignal{AccountID: "a1", AccountName: "A1"}

	f := scorer.Score(renewalInstance("a1"), sig, nil)
	if f.Base != DefaultParams().BaseScore[workflow.TypeRenewal] {
		t.Fatalf("expected base %v, got %v", DefaultParams().BaseScore[workflow.TypeRenewal], f.Base)
	}
	if f.ARRMultiplier != 1 || f.PlanMultiplier != 1 {
		t.Fatalf("expected neutral multipliers, got arr=%v plan=%v", f.ARRMultiplier, f.PlanMultiplier)
	}
	if f.Urgency != 0 {
		t.Fatalf("expected no urgency without renewal data, got %v", f.Urgency)
	}
	if f.Total != f.Base {
		t.Fatalf("expected total == base for neutral signal, got %v", f.Total)
	}
}

func TestScoreMonotonicInARR(t *testing.T) {
	scorer := newTestScorer(t)
	inst := renewalInstance("a1")

	prev := -1.0
	for _, arr := range []float64{0, 10_000, 100_000, 500_000, 5_000_000} {
		sig := signal.AccountSignal{AccountID: "a1", ARR: arr, RenewalStage: signal.StageNegotiation}
		total := scorer.Score(inst, sig, nil).Total
		if total < prev {
			t.Fatalf("total decreased at arr=%v: %v < %v", arr, total, prev)
		}
		prev = total
	}
}

func TestARRMultiplierSaturates(t *testing.T) {
	scorer := newTestScorer(t)
	ceiling := 1 + scorer.Params().ARRWeight
	mult := scorer.arrMultiplier(1e12)
	if mult >= ceiling {
		t.Fatalf("expected multiplier below %v, got %v", ceiling, mult)
	}
	if mult < ceiling-0.01 {
		t.Fatalf("expected multiplier near %v for huge arr, got %v", ceiling, mult)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	scorer := newTestScorer(t)
	risk := 100
	sig := signal.AccountSignal{AccountID: "a1", RiskScore: &risk}
	inst := workflow.Instance{ID: "inst-1", Type: workflow.Type("unknown"), AccountID: "a1"}

	f := scorer.Score(inst, sig, nil)
	if f.Total < 0 {
		t.Fatalf("expected non-negative total, got %v", f.Total)
	}
}

func TestUrgencyRamp(t *testing.T) {
	scorer := newTestScorer(t)
	params := scorer.Params()

	cases := []struct {
		days int
		want float64
	}{
		{days: params.UrgencyWindowDays, want: 0},
		{days: params.UrgencyWindowDays + 30, want: 0},
		{days: 0, want: params.UrgencyMax},
		{days: -10, want: params.UrgencyMax},
	}
	for _, tc := range cases {
		d := tc.days
		got := scorer.urgency(&d)
		if got != tc.want {
			t.Fatalf("urgency(%d) = %v, want %v", tc.days, got, tc.want)
		}
	}

	half := params.UrgencyWindowDays / 2
	got := scorer.urgency(&half)
	if got <= 0 || got >= params.UrgencyMax {
		t.Fatalf("expected mid-window urgency strictly between 0 and max, got %v", got)
	}
}

func TestOperatorAdjustments(t *testing.T) {
	scorer := newTestScorer(t)
	params := scorer.Params()

	busy := &signal.OperatorProfile{OperatorID: "op-1", Tier: signal.TierSenior, OpenWorkflows: 100}
	adj := scorer.operatorAdjustments(busy)
	if adj.WorkloadMultiplier != params.WorkloadPenaltyFloor {
		t.Fatalf("expected workload floor %v, got %v", params.WorkloadPenaltyFloor, adj.WorkloadMultiplier)
	}
	if adj.ExperienceMultiplier != params.ExperienceMultiplier[signal.TierSenior] {
		t.Fatalf("expected senior multiplier, got %v", adj.ExperienceMultiplier)
	}

	adj = scorer.operatorAdjustments(nil)
	if adj.WorkloadMultiplier != 1 || adj.ExperienceMultiplier != 1 {
		t.Fatalf("expected neutral adjustments without a profile, got %+v", adj)
	}
}

func TestScoreBreakdownMatchesTotal(t *testing.T) {
	scorer := newTestScorer(t)
	plan := signal.PlanInvest
	opp := 85
	days := 10
	sig := signal.AccountSignal{
		AccountID:        "a1",
		ARR:              250_000,
		RenewalStage:     signal.StageNegotiation,
		Plan:             &plan,
		OpportunityScore: &opp,
		DaysUntilRenewal: &days,
	}
	op := &signal.OperatorProfile{OperatorID: "op-1", Tier: signal.TierMid, OpenWorkflows: 3}

	f := scorer.Score(renewalInstance("a1"), sig, op)
	want := (f.Base + f.StageBonus + f.OpportunityBonus - f.RiskPenalty) *
		f.ARRMultiplier * f.PlanMultiplier
	want += f.Urgency
	want *= f.Operator.WorkloadMultiplier * f.Operator.ExperienceMultiplier

	if f.Total != want {
		t.Fatalf("breakdown does not reproduce total: %v != %v", f.Total, want)
	}
	if f.Total <= f.Base {
		t.Fatalf("expected enriched signal to outrank base %v, got %v", f.Base, f.Total)
	}
}
