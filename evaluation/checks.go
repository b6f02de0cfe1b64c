package evaluation

import (
	"github.com/MarcRuble/experiment-evaluation/domain/frame"
	"github.com/MarcRuble/experiment-evaluation/stattest"
)

// NormalityCheck is a Shapiro-Wilk result together with the session's
// verdict at its significance level.
type NormalityCheck struct {
	stattest.Normality
	Gaussian bool
}

// HomogeneityCheck is a Bartlett result together with the session's
// verdict at its significance level.
type HomogeneityCheck struct {
	stattest.Homogeneity
	Homogene bool
}

// SphericityCheck is a Mauchly result together with the session's
// verdict at its significance level.
type SphericityCheck struct {
	stattest.Sphericity
	Spherical bool
}

// CheckNormalDistribution runs a Shapiro-Wilk test on the value column
// over rows matching the condition. The null hypothesis is normality,
// so p above alpha passes the check.
func (e *Evaluator) CheckNormalDistribution(value string, c frame.Condition) (NormalityCheck, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return NormalityCheck{}, err
	}
	sample, err := filtered.Floats(value)
	if err != nil {
		return NormalityCheck{}, err
	}
	res, err := stattest.ShapiroWilk(sample)
	if err != nil {
		return NormalityCheck{}, err
	}
	check := NormalityCheck{Normality: res, Gaussian: res.P > e.settings.Alpha}
	e.log.Info("Session %s normality check on %s%s: W=%.4f p=%.4f gaussian=%t",
		e.sessionID, value, conditionSuffix(c), res.W, res.P, check.Gaussian)
	return check, nil
}

// CheckHomogeneVariances runs a Bartlett test on the value column
// split by the group column over rows matching the condition.
func (e *Evaluator) CheckHomogeneVariances(value, group string, c frame.Condition) (HomogeneityCheck, error) {
	series, _, err := e.groupSeries(value, group, c)
	if err != nil {
		return HomogeneityCheck{}, err
	}
	res, err := stattest.Bartlett(series...)
	if err != nil {
		return HomogeneityCheck{}, err
	}
	check := HomogeneityCheck{Homogeneity: res, Homogene: res.P > e.settings.Alpha}
	e.log.Info("Session %s homogeneity check on %s by %s%s: T=%.4f p=%.4f homogene=%t",
		e.sessionID, value, group, conditionSuffix(c), res.Statistic, res.P, check.Homogene)
	return check, nil
}

// CheckSphericity runs a Mauchly test on the value column across the
// within-subject conditions over rows matching the condition.
func (e *Evaluator) CheckSphericity(value, within, subject string, c frame.Condition) (SphericityCheck, error) {
	filtered, err := e.df.Filter(c)
	if err != nil {
		return SphericityCheck{}, err
	}
	res, err := stattest.Mauchly(filtered, subject, within, value)
	if err != nil {
		return SphericityCheck{}, err
	}
	check := SphericityCheck{Sphericity: res, Spherical: res.P > e.settings.Alpha}
	e.log.Info("Session %s sphericity check on %s across %s%s: W=%.4f chi2=%.4f p=%.4f spherical=%t",
		e.sessionID, value, within, conditionSuffix(c), res.W, res.Chi2, res.P, check.Spherical)
	return check, nil
}
