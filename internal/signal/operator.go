package signal

// ExperienceTier buckets an operator's tenure for scoring adjustments.
type ExperienceTier string

const (
	TierJunior ExperienceTier = "junior"
	TierMid    ExperienceTier = "mid"
	TierSenior ExperienceTier = "senior"
)

// OperatorProfile describes the account manager a workflow would be assigned
// to. Every field is optional at use sites; scoring falls back to neutral
// defaults when the profile is absent.
type OperatorProfile struct {
	OperatorID    string         `yaml:"operator_id" json:"operator_id"`
	Name          string         `yaml:"name,omitempty" json:"name,omitempty"`
	Tier          ExperienceTier `yaml:"experience_tier,omitempty" json:"experience_tier,omitempty"`
	OpenWorkflows int            `yaml:"open_workflows,omitempty" json:"open_workflows,omitempty"`
	Specialties   []string       `yaml:"specialties,omitempty" json:"specialties,omitempty"`
	// CommunicationStyle biases dialogue phrasing ("direct", "consultative").
	CommunicationStyle string `yaml:"communication_style,omitempty" json:"communication_style,omitempty"`
	// Performance metrics accumulated from closed workflows.
	CompletionRate float64 `yaml:"completion_rate,omitempty" json:"completion_rate,omitempty"`
	AvgCycleDays   float64 `yaml:"avg_cycle_days,omitempty" json:"avg_cycle_days,omitempty"`
}

// Clone returns a deep copy of the profile.
func (p OperatorProfile) Clone() OperatorProfile {
	clone := p
	if len(p.Specialties) > 0 {
		clone.Specialties = make([]string, len(p.Specialties))
		copy(clone.Specialties, p.Specialties)
	}
	return clone
}
