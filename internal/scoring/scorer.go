// Package scoring ranks workflow instances across a portfolio. The scorer is
// a pure function over its typed inputs: absent optional fields fall back to
// neutral values instead of erroring, and the itemized breakdown is always
// returned so callers can audit a ranking.
package scoring

import (
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// Scorer computes priority scores under one tuning.
type Scorer struct {
	params Params
}

// New constructs a scorer. Invalid params are reported up front so a bad
// config file fails at startup rather than mid-batch.
func New(params Params) (*Scorer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{params: params}, nil
}

// Params returns the scorer's tuning.
func (s *Scorer) Params() Params {
	return s.params
}

// Score computes the full factor breakdown for an instance.
//
// total = (base + stage_bonus + opportunity_bonus - risk_penalty)
//       * arr_multiplier * plan_multiplier + urgency,
// with the operator multipliers applied last and the result clamped at zero.
func (s *Scorer) Score(inst workflow.Instance, sig signal.AccountSignal, op *signal.OperatorProfile) workflow.Factors {
	f := workflow.NeutralFactors()
	f.Base = s.params.BaseScore[inst.Type]
	f.StageBonus = s.params.StageBonus[sig.RenewalStage]
	if sig.OpportunityScore != nil {
		f.OpportunityBonus = float64(*sig.OpportunityScore) * s.params.OpportunityWeight
	}
	if sig.RiskScore != nil {
		f.RiskPenalty = float64(*sig.RiskScore) * s.params.RiskWeight
	}
	f.ARRMultiplier = s.arrMultiplier(sig.ARR)
	if sig.Plan != nil {
		if mult, ok := s.params.PlanMultiplier[*sig.Plan]; ok {
			f.PlanMultiplier = mult
		}
	}
	f.Urgency = s.urgency(sig.DaysUntilRenewal)
	f.Operator = s.operatorAdjustments(op)

	total := (f.Base + f.StageBonus + f.OpportunityBonus - f.RiskPenalty) *
		f.ARRMultiplier * f.PlanMultiplier
	total += f.Urgency
	total *= f.Operator.WorkloadMultiplier * f.Operator.ExperienceMultiplier
	if total < 0 {
		total = 0
	}
	f.Total = total
	return f
}

// arrMultiplier is monotonic in ARR and saturates at 1 + ARRWeight, so large
// accounts weigh more with diminishing returns.
func (s *Scorer) arrMultiplier(arr float64) float64 {
	if arr <= 0 {
		return 1
	}
	return 1 + s.params.ARRWeight*arr/(arr+s.params.ARRSaturation)
}

// urgency ramps linearly from zero at the window edge to UrgencyMax at (and
// past) the renewal date. Missing renewal data contributes nothing.
func (s *Scorer) urgency(days *int) float64 {
	if days == nil {
		return 0
	}
	d := *days
	if d >= s.params.UrgencyWindowDays {
		return 0
	}
	if d <= 0 {
		return s.params.UrgencyMax
	}
	window := float64(s.params.UrgencyWindowDays)
	return s.params.UrgencyMax * (window - float64(d)) / window
}

func (s *Scorer) operatorAdjustments(op *signal.OperatorProfile) workflow.OperatorAdjustments {
	adj := workflow.OperatorAdjustments{WorkloadMultiplier: 1, ExperienceMultiplier: 1}
	if op == nil {
		return adj
	}
	if op.OpenWorkflows > 0 {
		penalty := 1 - float64(op.OpenWorkflows)*s.params.WorkloadPenaltyPer
		if penalty < s.params.WorkloadPenaltyFloor {
			penalty = s.params.WorkloadPenaltyFloor
		}
		adj.WorkloadMultiplier = penalty
	}
	if mult, ok := s.params.ExperienceMultiplier[op.Tier]; ok && op.Tier != "" {
		adj.ExperienceMultiplier = mult
	}
	return adj
}
