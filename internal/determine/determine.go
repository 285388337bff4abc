// Package determine decides which workflow types an account needs. The rules
// evaluate independently, so one account can require several workflow types
// in the same cycle; an account that triggers nothing yields an empty result,
// never an error.
package determine

import (
	"fmt"

	"github.com/kalens/playbook/internal/scoring"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// Determination names one workflow type an account needs and the rule that
// triggered it.
type Determination struct {
	Type   workflow.Type `json:"type"`
	Reason string        `json:"reason"`
}

// Engine evaluates determination rules under one tuning.
type Engine struct {
	params scoring.Params
}

// New constructs a determination engine.
func New(params scoring.Params) *Engine {
	return &Engine{params: params}
}

// Determine evaluates every rule against one account signal. The result is
// ordered renewal, strategic, opportunity, risk; deterministic for identical
// input.
func (e *Engine) Determine(sig signal.AccountSignal) []Determination {
	var out []Determination
	if d, ok := e.renewal(sig); ok {
		out = append(out, d)
	}
	if d, ok := e.strategic(sig); ok {
		out = append(out, d)
	}
	if d, ok := e.opportunity(sig); ok {
		out = append(out, d)
	}
	if d, ok := e.risk(sig); ok {
		out = append(out, d)
	}
	return out
}

func (e *Engine) renewal(sig signal.AccountSignal) (Determination, bool) {
	if sig.RenewalStage != "" && !sig.RenewalStage.Terminal() {
		return Determination{
			Type:   workflow.TypeRenewal,
			Reason: fmt.Sprintf("renewal stage is %s", sig.RenewalStage),
		}, true
	}
	if sig.DaysUntilRenewal != nil && *sig.DaysUntilRenewal < e.params.RenewalDaysThreshold {
		return Determination{
			Type:   workflow.TypeRenewal,
			Reason: fmt.Sprintf("renewal in %d days (under %d day threshold)", *sig.DaysUntilRenewal, e.params.RenewalDaysThreshold),
		}, true
	}
	return Determination{}, false
}

func (e *Engine) strategic(sig signal.AccountSignal) (Determination, bool) {
	if sig.Plan == nil {
		return Determination{}, false
	}
	switch *sig.Plan {
	case signal.PlanInvest, signal.PlanExpand:
		return Determination{
			Type:   workflow.TypeStrategic,
			Reason: fmt.Sprintf("strategic plan is %s", *sig.Plan),
		}, true
	case signal.PlanManage:
		// "manage" accounts only warrant strategic work above the ARR floor.
		if sig.ARR >= e.params.ManagePlanARRFloor {
			return Determination{
				Type:   workflow.TypeStrategic,
				Reason: fmt.Sprintf("strategic plan is manage with ARR %.0f at or above %.0f", sig.ARR, e.params.ManagePlanARRFloor),
			}, true
		}
	}
	return Determination{}, false
}

func (e *Engine) opportunity(sig signal.AccountSignal) (Determination, bool) {
	if sig.OpportunityScore == nil || *sig.OpportunityScore <= e.params.OpportunityThreshold {
		return Determination{}, false
	}
	return Determination{
		Type:   workflow.TypeOpportunity,
		Reason: fmt.Sprintf("opportunity score %d exceeds %d", *sig.OpportunityScore, e.params.OpportunityThreshold),
	}, true
}

func (e *Engine) risk(sig signal.AccountSignal) (Determination, bool) {
	if sig.RiskScore == nil || *sig.RiskScore <= e.params.RiskThreshold {
		return Determination{}, false
	}
	return Determination{
		Type:   workflow.TypeRisk,
		Reason: fmt.Sprintf("risk score %d exceeds %d", *sig.RiskScore, e.params.RiskThreshold),
	}, true
}
