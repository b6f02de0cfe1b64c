package evaluation

import (
	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/domain/result"
	"github.com/MarcRuble/experiment-evaluation/internal/errors"
	"github.com/MarcRuble/experiment-evaluation/stattest"
)

// pair is one ordered group comparison
type pair struct {
	a, b frame.Value
}

// WilcoxonTest runs signed-rank tests between groups of the value
// column over rows matching the condition. Without a baseline every
// unordered group pair is tested once and the result is a pair table.
// With a baseline only the comparisons against it run, reported as a
// baseline table with one column per remaining group. Each group's
// series is taken in row order, so groups must list their subjects in
// the same sequence. P-values carry a Bonferroni twin corrected for
// the number of tested pairs.
func (e *Evaluator) WilcoxonTest(value, group string, c frame.Condition, baseline *frame.Value) (result.Table, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return nil, err
	}
	groups, err := filtered.OrderedGroups(group, e.ordering)
	if err != nil {
		return nil, err
	}
	if baseline != nil {
		groups, err = moveBaselineLast(groups, *baseline)
		if err != nil {
			return nil, err
		}
	}

	pairs := enumeratePairs(groups, baseline)
	results := make([]stattest.WilcoxonResult, len(pairs))
	for i, p := range pairs {
		xs, err := seriesOf(filtered, value, group, p.a)
		if err != nil {
			return nil, err
		}
		ys, err := seriesOf(filtered, value, group, p.b)
		if err != nil {
			return nil, err
		}
		res, err := stattest.Wilcoxon(xs, ys)
		if err != nil {
			return nil, errors.Wrapf(err, "wilcoxon %s vs %s", p.a.Text(), p.b.Text())
		}
		results[i] = res
	}
	family := len(results)
	e.log.Info("Session %s wilcoxon comparisons on %s by %s%s: %d pairs",
		e.sessionID, value, group, conditionSuffix(c), family)

	if baseline == nil {
		pt := result.NewPairTable("W", "p", "p-bonf", "r", "d")
		for i, p := range pairs {
			res := results[i]
			pt.AddPair(p.a, p.b, map[string]frame.Value{
				"W":      frame.Num(res.W),
				"p":      AnnotateP(frame.Num(res.P)),
				"p-bonf": AnnotateP(frame.Num(Bonferroni(res.P, family))),
				"r":      frame.Num(res.RBC),
				"d":      frame.Num(res.CohenDZ),
			})
		}
		return pt, nil
	}

	// Baseline sits last after the move, so every tested pair reads
	// (group, baseline) and effect signs already point group-over-baseline.
	bt := result.NewBaselineTable([]string{"p", "bonf", "W", "r"}, groups[:len(groups)-1])
	for i, p := range pairs {
		res := results[i]
		cells := map[string]frame.Value{
			"p":    AnnotateP(frame.Num(res.P)),
			"bonf": AnnotateP(frame.Num(Bonferroni(res.P, family))),
			"W":    frame.Num(res.W),
			"r":    frame.Num(res.RBC),
		}
		for metric, v := range cells {
			if err := bt.Set(metric, p.a, v); err != nil {
				return nil, err
			}
		}
	}
	return bt, nil
}

// TTest runs paired t-tests between groups of the value column over
// rows matching the condition, joining each pair's series on the
// subject column. Without a baseline every unordered group pair is
// tested once and the result is a pair table. With a baseline only
// the comparisons against it are kept, reported as a baseline table
// with effect signs pointing group-over-baseline. The Bonferroni
// family is the number of reported rows without a baseline and the
// number of non-baseline groups with one.
func (e *Evaluator) TTest(value, group, subject string, c frame.Condition, baseline *frame.Value) (result.Table, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return nil, err
	}
	groups, err := filtered.OrderedGroups(group, e.ordering)
	if err != nil {
		return nil, err
	}
	if baseline != nil && !containsValue(groups, *baseline) {
		return nil, errors.BaselineNotFound(baseline.Text())
	}

	rows, err := stattest.PairwiseT(filtered, value, group, subject)
	if err != nil {
		return nil, err
	}
	e.log.Info("Session %s t-test comparisons on %s by %s%s: %d pairs",
		e.sessionID, value, group, conditionSuffix(c), len(rows))

	if baseline == nil {
		family := len(rows)
		pt := result.NewPairTable("T", "p", "p-bonf", "hedges")
		for _, row := range rows {
			pt.AddPair(row.A, row.B, map[string]frame.Value{
				"T":      frame.Num(row.T),
				"p":      AnnotateP(frame.Num(row.P)),
				"p-bonf": AnnotateP(frame.Num(Bonferroni(row.P, family))),
				"hedges": frame.Num(row.HedgesG),
			})
		}
		return pt, nil
	}

	family := len(groups) - 1
	others := make([]frame.Value, 0, family)
	for _, g := range groups {
		if !g.Equal(*baseline) {
			others = append(others, g)
		}
	}
	bt := result.NewBaselineTable([]string{"p", "bonf", "T", "hedges"}, others)
	for _, row := range rows {
		var partner frame.Value
		var baselineFirst bool
		switch {
		case row.A.Equal(*baseline):
			partner, baselineFirst = row.B, true
		case row.B.Equal(*baseline):
			partner, baselineFirst = row.A, false
		default:
			continue
		}
		cells := map[string]frame.Value{
			"p":      AnnotateP(frame.Num(row.P)),
			"bonf":   AnnotateP(frame.Num(Bonferroni(row.P, family))),
			"T":      frame.Num(row.T),
			"hedges": frame.Num(orientEffect(row.HedgesG, baselineFirst)),
		}
		for metric, v := range cells {
			if err := bt.Set(metric, partner, v); err != nil {
				return nil, err
			}
		}
	}
	return bt, nil
}

// moveBaselineLast reorders groups so the baseline closes the list
// while the others keep their relative order.
func moveBaselineLast(groups []frame.Value, baseline frame.Value) ([]frame.Value, error) {
	ordered := make([]frame.Value, 0, len(groups))
	found := false
	for _, g := range groups {
		if g.Equal(baseline) {
			found = true
			continue
		}
		ordered = append(ordered, g)
	}
	if !found {
		return nil, errors.BaselineNotFound(baseline.Text())
	}
	return append(ordered, baseline), nil
}

// enumeratePairs lists unordered group pairs in enumeration order,
// restricted to pairs ending at the baseline when one is set.
func enumeratePairs(groups []frame.Value, baseline *frame.Value) []pair {
	var pairs []pair
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			if baseline != nil && !groups[j].Equal(*baseline) {
				continue
			}
			pairs = append(pairs, pair{a: groups[i], b: groups[j]})
		}
	}
	return pairs
}

func containsValue(groups []frame.Value, v frame.Value) bool {
	for _, g := range groups {
		if g.Equal(v) {
			return true
		}
	}
	return false
}

// orientEffect flips an effect size so it reads group-over-baseline
// when the tested pair listed the baseline first.
func orientEffect(effect float64, baselineFirst bool) float64 {
	if baselineFirst {
		return -effect
	}
	return effect
}
