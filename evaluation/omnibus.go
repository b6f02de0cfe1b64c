package evaluation

import (
	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/stattest"
)

// FriedmanTest runs the non-parametric omnibus test on the value
// column across the within-subject conditions over rows matching the
// condition. Group series are paired by row order, so each group must
// list its subjects in the same sequence.
func (e *Evaluator) FriedmanTest(value, within string, c frame.Condition) (stattest.Omnibus, error) {
	series, _, err := e.groupSeries(value, within, c)
	if err != nil {
		return stattest.Omnibus{}, err
	}
	res, err := stattest.Friedman(series...)
	if err != nil {
		return stattest.Omnibus{}, err
	}
	e.log.Info("Session %s friedman test on %s across %s%s: chi2=%.4f p=%.4f significant=%t",
		e.sessionID, value, within, conditionSuffix(c), res.Statistic, res.P, res.P <= e.settings.Alpha)
	return res, nil
}

// AnovaTest runs a repeated-measures ANOVA on the value column across
// the within-subject conditions over rows matching the condition. The
// result carries both the uncorrected and the Greenhouse-Geisser
// corrected p-value.
func (e *Evaluator) AnovaTest(value, within, subject string, c frame.Condition) (stattest.AnovaTable, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return stattest.AnovaTable{}, err
	}
	res, err := stattest.RMAnova(filtered, subject, within, value)
	if err != nil {
		return stattest.AnovaTable{}, err
	}
	e.log.Info("Session %s anova on %s across %s%s: F(%d,%d)=%.4f p=%.4f p-GG=%.4f significant=%t",
		e.sessionID, value, within, conditionSuffix(c), res.DFCond, res.DFError, res.F, res.PUnc, res.PGG, res.PGG <= e.settings.Alpha)
	return res, nil
}
