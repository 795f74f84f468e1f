// Package usage meters consumption against plan usage limits. Counters are
// bucketed per user, scope and billing period; a limit with period "daily"
// reads a different bucket every day while "lifetime" always reads the same
// one.
package usage

import (
	"fmt"
	"time"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
)

// bucket returns the time bucket a counter belongs to.
func bucket(period plan.Period, t time.Time) string {
	t = t.UTC()
	switch period {
	case plan.PeriodDaily:
		return t.Format("2006-01-02")
	case plan.PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case plan.PeriodMonthly:
		return t.Format("2006-01")
	case plan.PeriodYearly:
		return t.Format("2006")
	default:
		return "all"
	}
}

// retention is how long a counter must stay readable after its bucket
// closes. Generous on purpose; a stale counter is cheaper than a lost one.
func retention(period plan.Period) time.Duration {
	switch period {
	case plan.PeriodDaily:
		return 48 * time.Hour
	case plan.PeriodWeekly:
		return 14 * 24 * time.Hour
	case plan.PeriodMonthly:
		return 62 * 24 * time.Hour
	case plan.PeriodYearly:
		return 2 * 366 * 24 * time.Hour
	default:
		return 0
	}
}

func counterKey(userID id.UserID, scope plan.Scope, period plan.Period, t time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", userID, scope.Module, scope.Feature, bucket(period, t))
}
