package usage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plangate/internal/plan"
	"plangate/pkg/requestcontext"
)

func TestBucket(t *testing.T) {
	monday := time.Date(2026, 1, 5, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2026-01-05", bucket(plan.PeriodDaily, monday))
	assert.Equal(t, "2026-W02", bucket(plan.PeriodWeekly, monday))
	assert.Equal(t, "2026-01", bucket(plan.PeriodMonthly, monday))
	assert.Equal(t, "2026", bucket(plan.PeriodYearly, monday))
	assert.Equal(t, "all", bucket(plan.PeriodLifetime, monday))
}

func TestMemoryMeter(t *testing.T) {
	ctx := context.Background()
	meter := NewMemoryMeter()
	scope := plan.Scope{Module: "reports", Feature: "export"}

	t.Run("starts at zero", func(t *testing.T) {
		consumed, err := meter.Consumed(ctx, "user-1", scope, plan.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 0, consumed)
	})

	t.Run("accumulates per user and scope", func(t *testing.T) {
		require.NoError(t, meter.Record(ctx, "user-1", scope, plan.PeriodDaily, 2))
		require.NoError(t, meter.Record(ctx, "user-1", scope, plan.PeriodDaily, 1))

		consumed, err := meter.Consumed(ctx, "user-1", scope, plan.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 3, consumed)

		other, err := meter.Consumed(ctx, "user-2", scope, plan.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 0, other)
	})

	t.Run("daily buckets roll over", func(t *testing.T) {
		today := requestcontext.WithTime(ctx, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
		tomorrow := requestcontext.WithTime(ctx, time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC))

		require.NoError(t, meter.Record(today, "user-3", scope, plan.PeriodDaily, 5))

		consumed, err := meter.Consumed(tomorrow, "user-3", scope, plan.PeriodDaily)
		require.NoError(t, err)
		assert.Equal(t, 0, consumed)
	})

	t.Run("lifetime bucket never rolls over", func(t *testing.T) {
		then := requestcontext.WithTime(ctx, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
		later := requestcontext.WithTime(ctx, time.Date(2027, 6, 1, 10, 0, 0, 0, time.UTC))

		require.NoError(t, meter.Record(then, "user-4", scope, plan.PeriodLifetime, 1))

		consumed, err := meter.Consumed(later, "user-4", scope, plan.PeriodLifetime)
		require.NoError(t, err)
		assert.Equal(t, 1, consumed)
	})
}
