package fraud

import (
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"go.uber.org/fx"
)

// Verdict is the outcome for one record. Rule is nil when the record is valid.
type Verdict struct {
	Rule *Rule
}

func (v Verdict) Valid() bool { return v.Rule == nil }

// Reason returns the fraud reason, or nil for a valid record.
func (v Verdict) Reason() *string {
	if v.Rule == nil {
		return nil
	}
	reason := v.Rule.Reason
	return &reason
}

// RuleCount is the number of records flagged by one rule.
type RuleCount struct {
	Rule  Rule
	Count int
}

// Summary aggregates verdicts of a batch. ByRule follows rule priority order.
type Summary struct {
	Total   int
	Valid   int
	Flagged int
	ByRule  []RuleCount
}

type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over rules in the given order. With no rules it
// uses DefaultRules.
func NewEngine(rules ...Rule) *Engine {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate returns the first rule matching rec.
func (e *Engine) Evaluate(rec *domain.ReferralRecord) Verdict {
	if i := e.match(rec); i >= 0 {
		return Verdict{Rule: &e.rules[i]}
	}
	return Verdict{}
}

func (e *Engine) match(rec *domain.ReferralRecord) int {
	for i := range e.rules {
		if e.rules[i].Match(rec) {
			return i
		}
	}
	return -1
}

// Apply evaluates every record and stores the verdict on it.
func (e *Engine) Apply(recs []domain.ReferralRecord) Summary {
	counts := make([]int, len(e.rules))
	summary := Summary{Total: len(recs)}

	for i := range recs {
		idx := e.match(&recs[i])
		if idx < 0 {
			recs[i].SetVerdict(nil)
			summary.Valid++
			continue
		}
		reason := e.rules[idx].Reason
		recs[i].SetVerdict(&reason)
		summary.Flagged++
		counts[idx]++
	}

	summary.ByRule = make([]RuleCount, len(e.rules))
	for i, rule := range e.rules {
		summary.ByRule[i] = RuleCount{Rule: rule, Count: counts[i]}
	}
	return summary
}

func provideEngine() *Engine {
	return NewEngine()
}

var Module = fx.Module("referral.fraud",
	fx.Provide(provideEngine),
)
