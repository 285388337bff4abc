package scoring

import (
	"fmt"

	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// Params collects every tunable constant used by determination and scoring.
// The values ship as configuration rather than hard-coded invariants so a
// deployment can rebalance the queue without a rebuild.
type Params struct {
	// BaseScore seeds the formula per workflow type.
	BaseScore map[workflow.Type]float64 `yaml:"base_score"`
	// StageBonus rewards urgent renewal pipeline stages.
	StageBonus map[signal.RenewalStage]float64 `yaml:"stage_bonus"`
	// PlanMultiplier weighs the account's strategic posture.
	PlanMultiplier map[signal.StrategicPlan]float64 `yaml:"plan_multiplier"`

	// OpportunityThreshold gates the opportunity workflow type;
	// OpportunityWeight converts the 0-100 score into a bonus.
	OpportunityThreshold int     `yaml:"opportunity_threshold"`
	OpportunityWeight    float64 `yaml:"opportunity_weight"`

	// RiskThreshold gates the risk workflow type; RiskWeight converts the
	// 0-100 score into a penalty.
	RiskThreshold int     `yaml:"risk_threshold"`
	RiskWeight    float64 `yaml:"risk_weight"`

	// ARRSaturation and ARRWeight shape the saturating ARR multiplier:
	// 1 + weight * arr / (arr + saturation).
	ARRSaturation float64 `yaml:"arr_saturation"`
	ARRWeight     float64 `yaml:"arr_weight"`

	// UrgencyWindowDays and UrgencyMax shape the urgency ramp: zero outside
	// the window, rising linearly to UrgencyMax at (and past) the renewal
	// date.
	UrgencyWindowDays int     `yaml:"urgency_window_days"`
	UrgencyMax        float64 `yaml:"urgency_max"`

	// RenewalDaysThreshold triggers the renewal workflow type even when the
	// stage alone would not.
	RenewalDaysThreshold int `yaml:"renewal_days_threshold"`
	// ManagePlanARRFloor makes the "manage" plan actionable only for
	// accounts at or above this ARR.
	ManagePlanARRFloor float64 `yaml:"manage_plan_arr_floor"`

	// WorkloadPenaltyPer and WorkloadPenaltyFloor shape the per-open-workflow
	// operator multiplier; ExperienceMultiplier weighs operator tenure.
	WorkloadPenaltyPer   float64                           `yaml:"workload_penalty_per"`
	WorkloadPenaltyFloor float64                           `yaml:"workload_penalty_floor"`
	ExperienceMultiplier map[signal.ExperienceTier]float64 `yaml:"experience_multiplier"`
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		BaseScore: map[workflow.Type]float64{
			workflow.TypeRenewal:     50,
			workflow.TypeRisk:        45,
			workflow.TypeStrategic:   40,
			workflow.TypeOpportunity: 35,
		},
		StageBonus: map[signal.RenewalStage]float64{
			signal.StageOverdue:      30,
			signal.StageAtRisk:       25,
			signal.StageNegotiation:  20,
			signal.StageProposalSent: 15,
			signal.StageVerbalCommit: 10,
			signal.StageContractSent: 8,
		},
		PlanMultiplier: map[signal.StrategicPlan]float64{
			signal.PlanInvest:  1.3,
			signal.PlanExpand:  1.2,
			signal.PlanManage:  1.0,
			signal.PlanMonitor: 0.8,
		},
		OpportunityThreshold: 70,
		OpportunityWeight:    0.25,
		RiskThreshold:        60,
		RiskWeight:           0.15,
		ARRSaturation:        250_000,
		ARRWeight:            1.0,
		UrgencyWindowDays:    90,
		UrgencyMax:           40,
		RenewalDaysThreshold: 120,
		ManagePlanARRFloor:   100_000,
		WorkloadPenaltyPer:   0.02,
		WorkloadPenaltyFloor: 0.7,
		ExperienceMultiplier: map[signal.ExperienceTier]float64{
			signal.TierJunior: 0.9,
			signal.TierMid:    1.0,
			signal.TierSenior: 1.05,
		},
	}
}

// Validate rejects tunings that would break the scorer's invariants.
func (p Params) Validate() error {
	for t, base := range p.BaseScore {
		if base < 0 {
			return fmt.Errorf("scoring: base score for %s must be >= 0", t)
		}
	}
	if p.ARRSaturation <= 0 {
		return fmt.Errorf("scoring: arr saturation must be > 0")
	}
	if p.ARRWeight < 0 {
		return fmt.Errorf("scoring: arr weight must be >= 0")
	}
	if p.UrgencyWindowDays <= 0 {
		return fmt.Errorf("scoring: urgency window must be > 0 days")
	}
	if p.UrgencyMax < 0 {
		return fmt.Errorf("scoring: urgency max must be >= 0")
	}
	if p.WorkloadPenaltyFloor <= 0 || p.WorkloadPenaltyFloor > 1 {
		return fmt.Errorf("scoring: workload penalty floor must be in (0, 1]")
	}
	if p.OpportunityThreshold < 0 || p.OpportunityThreshold > 100 {
		return fmt.Errorf("scoring: opportunity threshold must be between 0 and 100")
	}
	if p.RiskThreshold < 0 || p.RiskThreshold > 100 {
		return fmt.Errorf("scoring: risk threshold must be between 0 and 100")
	}
	return nil
}
