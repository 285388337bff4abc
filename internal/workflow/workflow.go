// Package workflow defines the unit of assignable work: a workflow instance
// tied to one account and one workflow type, plus the denormalized assignment
// view consumed by listing surfaces. Instances are never deleted; they only
// move through status transitions so the audit trail stays intact.
package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kalens/playbook/internal/signal"
)

// Type tags which category of guided work an instance represents.
type Type string

const (
	TypeRenewal     Type = "renewal"
	TypeStrategic   Type = "strategic"
	TypeOpportunity Type = "opportunity"
	TypeRisk        Type = "risk"
)

// Known reports whether the type is one of the four workflow categories.
func (t Type) Known() bool {
	switch t {
	case TypeRenewal, TypeStrategic, TypeOpportunity, TypeRisk:
		return true
	}
	return false
}

// Status enumerates the instance lifecycle.
type Status string

const (
	StatusPending             Status = "pending"
	StatusInProgress          Status = "in_progress"
	StatusCompleted           Status = "completed"
	StatusCompletedWithSnooze Status = "completed_with_snooze"
	StatusSkipped             Status = "skipped"
	StatusFailed              Status = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCompletedWithSnooze, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

// Factors itemizes every contribution to an instance's priority score. The
// breakdown is always populated, even when every factor is neutral, so
// callers can audit why an instance ranked where it did.
type Factors struct {
	Base             float64             `json:"base"`
	StageBonus       float64             `json:"stage_bonus"`
	OpportunityBonus float64             `json:"opportunity_bonus"`
	RiskPenalty      float64             `json:"risk_penalty"`
	ARRMultiplier    float64             `json:"arr_multiplier"`
	PlanMultiplier   float64             `json:"plan_multiplier"`
	Urgency          float64             `json:"urgency"`
	Operator         OperatorAdjustments `json:"operator"`
	Total            float64             `json:"total"`
}

// OperatorAdjustments carries the operator-derived multipliers applied after
// the base formula. Both default to 1 when no profile is available.
type OperatorAdjustments struct {
	WorkloadMultiplier   float64 `json:"workload_multiplier"`
	ExperienceMultiplier float64 `json:"experience_multiplier"`
}

// NeutralFactors returns a breakdown with every additive factor zero and
// every multiplier one.
func NeutralFactors() Factors {
	return Factors{
		ARRMultiplier:  1,
		PlanMultiplier: 1,
		Operator: OperatorAdjustments{
			WorkloadMultiplier:   1,
			ExperienceMultiplier: 1,
		},
	}
}

// Instance is one unit of assignable work for one account.
type Instance struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
	// AccountID names the owning account; Reason records which determination
	// rule triggered the instance.
	AccountID string `json:"account_id"`
	Reason    string `json:"reason,omitempty"`
	// Config is the free-form payload handed to the composer when the
	// instance's guided session opens (composition id, pricing inputs).
	Config    map[string]any `json:"config,omitempty"`
	Priority  float64        `json:"priority"`
	Factors   Factors        `json:"factors"`
	Status    Status         `json:"status"`
	Assignee  string         `json:"assignee,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewInstance mints a pending instance for an (account, type) pair.
func NewInstance(t Type, accountID, assignee, reason string, now time.Time) Instance {
	return Instance{
		ID:        uuid.NewString(),
		Type:      t,
		AccountID: accountID,
		Reason:    reason,
		Factors:   NeutralFactors(),
		Status:    StatusPending,
		Assignee:  assignee,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves the instance to a new status. Terminal statuses are
// frozen; attempting to leave one is an error so callers cannot corrupt the
// audit trail.
func (i *Instance) Transition(to Status, now time.Time) error {
	if i.Status.Terminal() {
		return fmt.Errorf("workflow: instance %s is %s and cannot move to %s", i.ID, i.Status, to)
	}
	i.Status = to
	i.UpdatedAt = now
	return nil
}

// Assignment joins an instance with the denormalized account context and the
// resolved operator profile. It is a recomputed read model, never stored.
type Assignment struct {
	Instance Instance                `json:"instance"`
	Account  signal.AccountSignal    `json:"account"`
	Operator *signal.OperatorProfile `json:"operator,omitempty"`

	// Denormalized convenience fields for listing surfaces.
	AccountName      string                `json:"account_name"`
	ARR              float64               `json:"arr"`
	RenewalStage     signal.RenewalStage   `json:"renewal_stage,omitempty"`
	Plan             *signal.StrategicPlan `json:"strategic_plan,omitempty"`
	OpportunityScore *int                  `json:"opportunity_score,omitempty"`
	RiskScore        *int                  `json:"risk_score,omitempty"`
	DaysUntilRenewal *int                  `json:"days_until_renewal,omitempty"`
}

// NewAssignment builds the read model for an instance against its signal.
func NewAssignment(inst Instance, sig signal.AccountSignal, op *signal.OperatorProfile) Assignment {
	account := sig.Clone()
	asn := Assignment{
		Instance:         inst,
		Account:          account,
		AccountName:      account.AccountName,
		ARR:              account.ARR,
		RenewalStage:     account.RenewalStage,
		Plan:             account.Plan,
		OpportunityScore: account.OpportunityScore,
		RiskScore:        account.RiskScore,
		DaysUntilRenewal: account.DaysUntilRenewal,
	}
	if op != nil {
		clone := op.Clone()
		asn.Operator = &clone
	}
	return asn
}
