package portfolio

import (
	"sort"

	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// AccountGroup rolls one account's assignments up for dashboard display.
type AccountGroup struct {
	AccountID       string                `json:"account_id"`
	AccountName     string                `json:"account_name"`
	Assignments     []workflow.Assignment `json:"assignments"`
	TotalPriority   float64               `json:"total_priority"`
	HighestPriority float64               `json:"highest_priority"`
}

// GroupByAccount buckets a ranked assignment list per account. Groups are
// ordered by highest priority descending; assignments inside a group keep
// their ranked order.
func GroupByAccount(ranked []workflow.Assignment) []AccountGroup {
	index := map[string]int{}
	var groups []AccountGroup
	for _, asn := range ranked {
		id := asn.Instance.AccountID
		at, ok := index[id]
		if !ok {
			at = len(groups)
			index[id] = at
			groups = append(groups, AccountGroup{AccountID: id, AccountName: asn.AccountName})
		}
		group := &groups[at]
		group.Assignments = append(group.Assignments, asn)
		group.TotalPriority += asn.Instance.Priority
		if asn.Instance.Priority > group.HighestPriority {
			group.HighestPriority = asn.Instance.Priority
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].HighestPriority > groups[j].HighestPriority
	})
	return groups
}

// Stats summarizes a ranked assignment list.
type Stats struct {
	Total          int                          `json:"total"`
	ByType         map[workflow.Type]int        `json:"by_type"`
	ByStage        map[signal.RenewalStage]int  `json:"by_stage"`
	ByPlan         map[signal.StrategicPlan]int `json:"by_plan"`
	UniqueAccounts int                          `json:"unique_accounts"`
	MinPriority    float64                      `json:"min_priority"`
	MaxPriority    float64                      `json:"max_priority"`
	AvgPriority    float64                      `json:"avg_priority"`
}

// Summarize computes counts and priority spread over a ranked list.
func Summarize(ranked []workflow.Assignment) Stats {
	stats := Stats{
		ByType:  map[workflow.Type]int{},
		ByStage: map[signal.RenewalStage]int{},
		ByPlan:  map[signal.StrategicPlan]int{},
	}
	accounts := map[string]struct{}{}
	var sum float64
	for i, asn := range ranked {
		stats.Total++
		stats.ByType[asn.Instance.Type]++
		if asn.RenewalStage != "" {
			stats.ByStage[asn.RenewalStage]++
		}
		if asn.Plan != nil {
			stats.ByPlan[*asn.Plan]++
		}
		accounts[asn.Instance.AccountID] = struct{}{}
		priority := asn.Instance.Priority
		sum += priority
		if i == 0 || priority < stats.MinPriority {
			stats.MinPriority = priority
		}
		if priority > stats.MaxPriority {
			stats.MaxPriority = priority
		}
	}
	stats.UniqueAccounts = len(accounts)
	if stats.Total > 0 {
		stats.AvgPriority = sum / float64(stats.Total)
	}
	return stats
}

// Criteria filters a ranked assignment list. Zero-valued fields match
// everything.
type Criteria struct {
	Type        workflow.Type
	Stage       signal.RenewalStage
	Plan        *signal.StrategicPlan
	MinARR      float64
	MaxARR      float64
	MinPriority float64
	// Days-until-renewal window; nil bounds are open.
	MinDays *int
	MaxDays *int
}

// Filter keeps the assignments matching every set criterion, preserving rank
// order.
func Filter(ranked []workflow.Assignment, c Criteria) []workflow.Assignment {
	var out []workflow.Assignment
	for _, asn := range ranked {
		if !c.matches(asn) {
			continue
		}
		out = append(out, asn)
	}
	return out
}

func (c Criteria) matches(asn workflow.Assignment) bool {
	if c.Type != "" && asn.Instance.Type != c.Type {
		return false
	}
	if c.Stage != "" && asn.RenewalStage != c.Stage {
		return false
	}
	if c.Plan != nil && (asn.Plan == nil || *asn.Plan != *c.Plan) {
		return false
	}
	if c.MinARR > 0 && asn.ARR < c.MinARR {
		return false
	}
	if c.MaxARR > 0 && asn.ARR > c.MaxARR {
		return false
	}
	if c.MinPriority > 0 && asn.Instance.Priority < c.MinPriority {
		return false
	}
	if c.MinDays != nil && (asn.DaysUntilRenewal == nil || *asn.DaysUntilRenewal < *c.MinDays) {
		return false
	}
	if c.MaxDays != nil && (asn.DaysUntilRenewal == nil || *asn.DaysUntilRenewal > *c.MaxDays) {
		return false
	}
	return true
}
