// Package signal holds the typed account and operator data that drives
// workflow determination and prioritization. Signals are point-in-time
// snapshots produced by an external store; nothing in this package mutates
// them after load.
package signal

import (
	"fmt"
	"time"
)

// RenewalStage is one of the nine renewal pipeline stages, ordered from most
// to least urgent.
type RenewalStage string

const (
	StageOverdue      RenewalStage = "overdue"
	StageAtRisk       RenewalStage = "at_risk"
	StageNegotiation  RenewalStage = "negotiation"
	StageProposalSent RenewalStage = "proposal_sent"
	StageVerbalCommit RenewalStage = "verbal_commit"
	StageContractSent RenewalStage = "contract_sent"
	StageClosedWon    RenewalStage = "closed_won"
	StageClosedLost   RenewalStage = "closed_lost"
	StageMonitor      RenewalStage = "monitor"
)

// Terminal reports whether the stage needs no active renewal work.
func (s RenewalStage) Terminal() bool {
	switch s {
	case StageClosedWon, StageClosedLost, StageMonitor:
		return true
	}
	return false
}

// Known reports whether the stage is one of the nine pipeline values.
func (s RenewalStage) Known() bool {
	switch s {
	case StageOverdue, StageAtRisk, StageNegotiation, StageProposalSent,
		StageVerbalCommit, StageContractSent, StageClosedWon, StageClosedLost,
		StageMonitor:
		return true
	}
	return false
}

// StrategicPlan tags the account's current strategic posture.
type StrategicPlan string

const (
	PlanInvest  StrategicPlan = "invest"
	PlanExpand  StrategicPlan = "expand"
	PlanManage  StrategicPlan = "manage"
	PlanMonitor StrategicPlan = "monitor"
)

// AccountSignal is one account's snapshot for a single refresh cycle.
type AccountSignal struct {
	AccountID    string         `yaml:"account_id" json:"account_id"`
	AccountName  string         `yaml:"account_name" json:"account_name"`
	OwnerID      string         `yaml:"owner_id" json:"owner_id"`
	ARR          float64        `yaml:"current_arr" json:"current_arr"`
	RenewalDate  *time.Time     `yaml:"renewal_date,omitempty" json:"renewal_date,omitempty"`
	RenewalStage RenewalStage   `yaml:"renewal_stage,omitempty" json:"renewal_stage,omitempty"`
	Plan         *StrategicPlan `yaml:"strategic_plan,omitempty" json:"strategic_plan,omitempty"`
	// OpportunityScore and RiskScore are 0-100 when present.
	OpportunityScore *int `yaml:"opportunity_score,omitempty" json:"opportunity_score,omitempty"`
	RiskScore        *int `yaml:"risk_score,omitempty" json:"risk_score,omitempty"`
	// DaysUntilRenewal is derived from RenewalDate at snapshot time.
	DaysUntilRenewal *int `yaml:"days_until_renewal,omitempty" json:"days_until_renewal,omitempty"`
}

// Clone returns a deep copy so callers can hold signals without aliasing the
// snapshot's pointers.
func (s AccountSignal) Clone() AccountSignal {
	clone := s
	clone.RenewalDate = clonePtr(s.RenewalDate)
	clone.Plan = clonePtr(s.Plan)
	clone.OpportunityScore = clonePtr(s.OpportunityScore)
	clone.RiskScore = clonePtr(s.RiskScore)
	clone.DaysUntilRenewal = clonePtr(s.DaysUntilRenewal)
	return clone
}

// Validate ensures the snapshot is usable by the determination and scoring
// layers. Optional fields may be absent; present fields must be in range.
func (s AccountSignal) Validate() error {
	if s.AccountID == "" {
		return fmt.Errorf("signal: account id is required")
	}
	if s.ARR < 0 {
		return fmt.Errorf("signal: account %s: arr must be >= 0", s.AccountID)
	}
	if s.RenewalStage != "" && !s.RenewalStage.Known() {
		return fmt.Errorf("signal: account %s: unknown renewal stage %q", s.AccountID, s.RenewalStage)
	}
	if err := scoreInRange("opportunity_score", s.OpportunityScore); err != nil {
		return fmt.Errorf("signal: account %s: %w", s.AccountID, err)
	}
	if err := scoreInRange("risk_score", s.RiskScore); err != nil {
		return fmt.Errorf("signal: account %s: %w", s.AccountID, err)
	}
	return nil
}

// Derived fills DaysUntilRenewal from RenewalDate relative to now. The
// original pointer fields are preserved; an already-present value wins.
func (s AccountSignal) Derived(now time.Time) AccountSignal {
	clone := s.Clone()
	if clone.DaysUntilRenewal != nil || clone.RenewalDate == nil {
		return clone
	}
	days := int(clone.RenewalDate.Sub(now).Hours() / 24)
	clone.DaysUntilRenewal = &days
	return clone
}

func scoreInRange(field string, value *int) error {
	if value == nil {
		return nil
	}
	if *value < 0 || *value > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %d", field, *value)
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
