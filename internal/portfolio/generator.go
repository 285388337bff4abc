// Package portfolio is the batch entry point: it runs determination and
// scoring across every account in a snapshot and exposes the ranked
// assignment list plus filtering and rollup views. Everything here is pure
// over its inputs; no I/O happens in this package.
package portfolio

import (
	"sort"
	"time"

	"github.com/kalens/playbook/internal/determine"
	"github.com/kalens/playbook/internal/scoring"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// Generator runs the determination and scoring pipeline for a portfolio.
type Generator struct {
	engine    *determine.Engine
	scorer    *scoring.Scorer
	operators map[string]signal.OperatorProfile
	clock     func() time.Time
}

// Option customizes the generator.
type Option func(*Generator)

// WithOperators supplies the operator roster keyed by operator id. Scoring
// works without it; profiles only bias the ranking.
func WithOperators(ops map[string]signal.OperatorProfile) Option {
	return func(g *Generator) {
		if len(ops) > 0 {
			g.operators = ops
		}
	}
}

// WithClock injects a deterministic clock (primarily for tests).
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// New wires a generator from one tuning.
func New(params scoring.Params, opts ...Option) (*Generator, error) {
	scorer, err := scoring.New(params)
	if err != nil {
		return nil, err
	}
	g := &Generator{
		engine: determine.New(params),
		scorer: scorer,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// GenerateAll produces one assignment per (account, applicable type) pair,
// ranked by total score descending. Ties break by ARR descending, then
// account id ascending, so the ordering is deterministic across runs.
func (g *Generator) GenerateAll(accounts []signal.AccountSignal) []workflow.Assignment {
	now := g.clock()
	var out []workflow.Assignment
	for _, account := range accounts {
		op := g.operator(account.OwnerID)
		for _, det := range g.engine.Determine(account) {
			inst := workflow.NewInstance(det.Type, account.AccountID, account.OwnerID, det.Reason, now)
			inst.Factors = g.scorer.Score(inst, account, op)
			inst.Priority = inst.Factors.Total
			out = append(out, workflow.NewAssignment(inst, account, op))
		}
	}
	rank(out)
	return out
}

// QueueForOperator restricts the portfolio to one owner before scoring and
// returns that operator's ranked queue.
func (g *Generator) QueueForOperator(accounts []signal.AccountSignal, operatorID string) []workflow.Assignment {
	var owned []signal.AccountSignal
	for _, account := range accounts {
		if account.OwnerID == operatorID {
			owned = append(owned, account)
		}
	}
	return g.GenerateAll(owned)
}

// Top returns the n highest-ranked assignments from an already ranked list.
func Top(ranked []workflow.Assignment, n int) []workflow.Assignment {
	if n <= 0 || len(ranked) == 0 {
		return nil
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]workflow.Assignment, n)
	copy(out, ranked[:n])
	return out
}

func (g *Generator) operator(id string) *signal.OperatorProfile {
	if id == "" || g.operators == nil {
		return nil
	}
	op, ok := g.operators[id]
	if !ok {
		return nil
	}
	return &op
}

func rank(assignments []workflow.Assignment) {
	sort.SliceStable(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if a.Instance.Priority != b.Instance.Priority {
			return a.Instance.Priority > b.Instance.Priority
		}
		if a.ARR != b.ARR {
			return a.ARR > b.ARR
		}
		return a.Instance.AccountID < b.Instance.AccountID
	})
}
