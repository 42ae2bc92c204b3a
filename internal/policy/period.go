// Package policy derives competition period identifiers from wall
// clock time. Period ids are stable, compact strings: every caller
// deriving an id for the same instant and granularity gets the same
// string, which is what keys leaderboards, vault snapshots, and
// anti-replay tracking together.
package policy

import (
	"fmt"
	"time"

	"github.com/wordrush/platform/internal/domain"
)

const secondsPerDay = 86_400

// PeriodID returns the period identifier covering the given instant.
// Daily and weekly ids count whole UTC days/weeks since the Unix
// epoch; monthly ids count calendar months.
func PeriodID(g domain.Granularity, at time.Time) (string, error) {
	ts := at.UTC()
	switch g {
	case domain.GranularityDaily:
		return fmt.Sprintf("D%d", ts.Unix()/secondsPerDay), nil
	case domain.GranularityWeekly:
		return fmt.Sprintf("W%d", ts.Unix()/(7*secondsPerDay)), nil
	case domain.GranularityMonthly:
		return fmt.Sprintf("M%d", int(ts.Year())*12+int(ts.Month())-1), nil
	}
	return "", domain.ErrValidation(fmt.Sprintf("unknown granularity %q", g))
}

// CurrentPeriods returns the three period ids one game outcome feeds.
func CurrentPeriods(at time.Time) (map[domain.Granularity]string, error) {
	out := make(map[domain.Granularity]string, len(domain.Granularities))
	for _, g := range domain.Granularities {
		id, err := PeriodID(g, at)
		if err != nil {
			return nil, err
		}
		out[g] = id
	}
	return out, nil
}

// PeriodStart returns the instant the identified period began. It is
// the inverse of PeriodID for scheduling finalization runs.
func PeriodStart(g domain.Granularity, periodID string) (time.Time, error) {
	var n int64
	prefix := map[domain.Granularity]byte{
		domain.GranularityDaily:   'D',
		domain.GranularityWeekly:  'W',
		domain.GranularityMonthly: 'M',
	}[g]
	if len(periodID) < 2 || periodID[0] != prefix {
		return time.Time{}, domain.ErrValidation(fmt.Sprintf("malformed %s period id %q", g, periodID))
	}
	if _, err := fmt.Sscanf(periodID[1:], "%d", &n); err != nil {
		return time.Time{}, domain.ErrValidation(fmt.Sprintf("malformed period id %q", periodID))
	}
	switch g {
	case domain.GranularityDaily:
		return time.Unix(n*secondsPerDay, 0).UTC(), nil
	case domain.GranularityWeekly:
		return time.Unix(n*7*secondsPerDay, 0).UTC(), nil
	}
	year, month := int(n/12), time.Month(n%12+1)
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}
