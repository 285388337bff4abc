package signal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRenewalStageTerminal(t *testing.T) {
	terminal := []RenewalStage{StageClosedWon, StageClosedLost, StageMonitor}
	for _, stage := range terminal {
		if !stage.Terminal() {
			t.Fatalf("expected %s to be terminal", stage)
		}
	}
	active := []RenewalStage{StageOverdue, StageAtRisk, StageNegotiation, StageProposalSent, StageVerbalCommit, StageContractSent}
	for _, stage := range active {
		if stage.Terminal() {
			t.Fatalf("expected %s to be active", stage)
		}
	}
	if RenewalStage("bogus").Known() {
		t.Fatal("expected bogus stage to be unknown")
	}
}

func TestValidate(t *testing.T) {
	bad := 150
	cases := []struct {
		name string
		sig  AccountSignal
		want string
	}{
		{name: "missing id", sig: AccountSignal{}, want: "account id"},
		{name: "negative arr", sig: AccountSignal{AccountID: "a1", ARR: -1}, want: "arr"},
		{name: "unknown stage", sig: AccountSignal{AccountID: "a1", RenewalStage: "weird"}, want: "renewal stage"},
		{name: "score range", sig: AccountSignal{AccountID: "a1", OpportunityScore: &bad}, want: "opportunity_score"},
	}
	for _, tc := range cases {
		err := tc.sig.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}

	ok := AccountSignal{AccountID: "a1", AccountName: "A1", ARR: 10_000, RenewalStage: StageNegotiation}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid signal, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	days := 30
	plan := PlanInvest
	original := AccountSignal{AccountID: "a1", Plan: &plan, DaysUntilRenewal: &days}
	clone := original.Clone()

	*clone.DaysUntilRenewal = 99
	*clone.Plan = PlanMonitor
	if *original.DaysUntilRenewal != 30 || *original.Plan != PlanInvest {
		t.Fatalf("clone aliased the original: %+v", original)
	}
}

func TestDerivedFillsDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	renewal := now.AddDate(0, 0, 45)
	sig := AccountSignal{AccountID: "a1", RenewalDate: &renewal}

	derived := sig.Derived(now)
	if derived.DaysUntilRenewal == nil || *derived.DaysUntilRenewal != 45 {
		t.Fatalf("expected 45 days, got %v", derived.DaysUntilRenewal)
	}

	// An explicit value wins over the date.
	preset := 7
	sig.DaysUntilRenewal = &preset
	derived = sig.Derived(now)
	if *derived.DaysUntilRenewal != 7 {
		t.Fatalf("expected preset 7 days, got %d", *derived.DaysUntilRenewal)
	}

	// No renewal data means no derived value.
	bare := AccountSignal{AccountID: "a1"}
	if got := bare.Derived(now); got.DaysUntilRenewal != nil {
		t.Fatalf("expected nil days, got %d", *got.DaysUntilRenewal)
	}
}

func TestParseSnapshotYAML(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	payload := strings.TrimSpace(`
taken_at: 2026-03-01T00:00:00Z
accounts:
  - account_id: acct-acme
    account_name: Acme
    owner_id: op-1
    current_arr: 250000
    renewal_stage: negotiation
    strategic_plan: invest
    opportunity_score: 85
    renewal_date: 2026-03-31T00:00:00Z
  - account_id: acct-globex
    account_name: Globex
    current_arr: 40000
operators:
  op-1:
    operator_id: op-1
    experience_tier: senior
    open_workflows: 4
`)

	snap, err := ParseSnapshotYAML([]byte(payload), now)
	if err != nil {
		t.Fatalf("ParseSnapshotYAML returned error: %v", err)
	}
	if len(snap.Accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(snap.Accounts))
	}
	acme := snap.Accounts[0]
	if acme.RenewalStage != StageNegotiation || acme.Plan == nil || *acme.Plan != PlanInvest {
		t.Fatalf("acme decoded wrong: %+v", acme)
	}
	if acme.DaysUntilRenewal == nil || *acme.DaysUntilRenewal != 30 {
		t.Fatalf("expected 30 derived days, got %v", acme.DaysUntilRenewal)
	}
	op, ok := snap.Operators["op-1"]
	if !ok || op.Tier != TierSenior || op.OpenWorkflows != 4 {
		t.Fatalf("operator decoded wrong: %+v", op)
	}
}

func TestParseSnapshotYAMLRejectsBadInput(t *testing.T) {
	now := time.Now()
	if _, err := ParseSnapshotYAML([]byte("  \n"), now); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := ParseSnapshotYAML([]byte("accounts: [nope"), now); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
	invalid := "accounts:\n  - account_name: NoID\n"
	if _, err := ParseSnapshotYAML([]byte(invalid), now); err == nil {
		t.Fatal("expected validation error for missing account id")
	}
}

func TestLoadSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	content := "accounts:\n  - account_id: acct-1\n    account_name: One\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	snap, err := LoadSnapshotFile(path, time.Now())
	if err != nil {
		t.Fatalf("LoadSnapshotFile returned error: %v", err)
	}
	if len(snap.Accounts) != 1 || snap.Accounts[0].AccountID != "acct-1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	if _, err := LoadSnapshotFile(filepath.Join(dir, "missing.yaml"), time.Now()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
