package service

import (
	"testing"
	"time"

	evententity "wellness-planner/modules/event/entity"
	moodentity "wellness-planner/modules/mood/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(date string, rating int) moodentity.DailyMoodEntry {
	return moodentity.DailyMoodEntry{EntryDate: day(date), Rating: rating}
}

func timedEvent(start, end string, status evententity.EventStatus, priority evententity.EventPriority) evententity.Event {
	s, err := time.Parse("2006-01-02 15:04", start)
	if err != nil {
		panic(err)
	}
	e, err := time.Parse("2006-01-02 15:04", end)
	if err != nil {
		panic(err)
	}
	return evententity.Event{StartTime: s, EndTime: e, Status: status, Priority: priority}
}

func TestMonthlySummary(t *testing.T) {
	agg := NewAggregator()
	today := day("2026-03-20")

	t.Run("Empty Month", func(t *testing.T) {
		summary := agg.MonthlySummary(2026, 3, nil, nil, today)
		assert.Equal(t, 0, summary.EntryCount)
		assert.Equal(t, 0.0, summary.AverageRating)
		assert.Equal(t, 0.0, summary.CompletionRate)
		assert.Empty(t, summary.BestDay)
	})

	t.Run("Ratings And Distribution", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-01", 5),
			entry("2026-03-02", 2),
			entry("2026-03-03", 4),
		}
		summary := agg.MonthlySummary(2026, 3, entries, nil, today)

		assert.Equal(t, 3, summary.EntryCount)
		assert.Equal(t, 3.67, summary.AverageRating)
		assert.Equal(t, "2026-03-01", summary.BestDay)
		assert.Equal(t, "2026-03-02", summary.WorstDay)
		assert.Equal(t, [5]int{0, 1, 0, 1, 1}, summary.RatingCounts)
	})

	t.Run("Out Of Range Ratings Are Skipped", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-01", 0),
			entry("2026-03-02", 3),
		}
		summary := agg.MonthlySummary(2026, 3, entries, nil, today)
		assert.Equal(t, 1, summary.EntryCount)
		assert.Equal(t, 3.0, summary.AverageRating)
	})

	t.Run("Completion Rate Excludes Cancelled", func(t *testing.T) {
		events := []evententity.Event{
			timedEvent("2026-03-10 09:00", "2026-03-10 10:00", evententity.StatusCompleted, evententity.PriorityNormal),
			timedEvent("2026-03-11 09:00", "2026-03-11 10:00", evententity.StatusCancelled, evententity.PriorityNormal),
			// scheduled, already past, counts against completion
			timedEvent("2026-03-12 09:00", "2026-03-12 10:00", evententity.StatusScheduled, evententity.PriorityNormal),
			// scheduled in the future, not yet counted
			timedEvent("2026-03-25 09:00", "2026-03-25 10:00", evententity.StatusScheduled, evententity.PriorityNormal),
		}
		summary := agg.MonthlySummary(2026, 3, nil, events, today)

		assert.Equal(t, 4, summary.EventsScheduled)
		assert.Equal(t, 1, summary.EventsCompleted)
		assert.Equal(t, 0.5, summary.CompletionRate)
	})

	t.Run("Busiest Day", func(t *testing.T) {
		events := []evententity.Event{
			timedEvent("2026-03-10 09:00", "2026-03-10 10:00", evententity.StatusCompleted, evententity.PriorityNormal),
			timedEvent("2026-03-10 11:00", "2026-03-10 12:00", evententity.StatusCompleted, evententity.PriorityNormal),
			timedEvent("2026-03-11 09:00", "2026-03-11 10:00", evententity.StatusCompleted, evententity.PriorityNormal),
		}
		summary := agg.MonthlySummary(2026, 3, nil, events, today)
		assert.Equal(t, "2026-03-10", summary.BusiestDay)
		assert.Equal(t, 2, summary.BusiestDayCount)
	})
}

func TestStreaks(t *testing.T) {
	agg := NewAggregator()

	t.Run("No Entries", func(t *testing.T) {
		streaks := agg.Streaks(nil, day("2026-03-20"))
		assert.Equal(t, 0, streaks.CurrentLogging)
		assert.Equal(t, 0, streaks.LongestLogging)
	})

	t.Run("Consecutive Days", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-17", 4),
			entry("2026-03-18", 5),
			entry("2026-03-19", 4),
			entry("2026-03-20", 2),
		}
		streaks := agg.Streaks(entries, day("2026-03-20"))

		assert.Equal(t, 4, streaks.CurrentLogging)
		assert.Equal(t, 4, streaks.LongestLogging)
		assert.Equal(t, 3, streaks.LongestGood)
		// today's entry is a 2, current good streak is broken
		assert.Equal(t, 0, streaks.CurrentGood)
	})

	t.Run("Gap Breaks Run", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-10", 4),
			entry("2026-03-11", 4),
			// 2026-03-12 missing
			entry("2026-03-13", 4),
		}
		streaks := agg.Streaks(entries, day("2026-03-13"))
		assert.Equal(t, 1, streaks.CurrentLogging)
		assert.Equal(t, 2, streaks.LongestLogging)
	})

	t.Run("Missing Today Does Not Break Current", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-18", 5),
			entry("2026-03-19", 5),
		}
		streaks := agg.Streaks(entries, day("2026-03-20"))
		assert.Equal(t, 2, streaks.CurrentLogging)
		assert.Equal(t, 2, streaks.CurrentGood)
	})
}

func TestCategoryImpact(t *testing.T) {
	agg := NewAggregator()
	workID := uuid.New()

	withCategory := func(start, end string, id uuid.UUID) evententity.Event {
		ev := timedEvent(start, end, evententity.StatusCompleted, evententity.PriorityNormal)
		ev.CategoryID = &id
		return ev
	}

	t.Run("No Logged Days", func(t *testing.T) {
		impacts := agg.CategoryImpact(nil, nil)
		assert.Empty(t, impacts)
	})

	t.Run("Thin Evidence Is Skipped", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-01", 4),
			entry("2026-03-02", 2),
		}
		events := []evententity.Event{
			withCategory("2026-03-01 09:00", "2026-03-01 10:00", workID),
		}
		assert.Empty(t, agg.CategoryImpact(entries, events))
	})

	t.Run("Computes Delta", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{
			entry("2026-03-01", 5), entry("2026-03-02", 5), entry("2026-03-03", 5),
			entry("2026-03-04", 2), entry("2026-03-05", 2), entry("2026-03-06", 2),
		}
		events := []evententity.Event{
			withCategory("2026-03-01 09:00", "2026-03-01 10:00", workID),
			withCategory("2026-03-02 09:00", "2026-03-02 10:00", workID),
			withCategory("2026-03-03 09:00", "2026-03-03 10:00", workID),
		}
		impacts := agg.CategoryImpact(entries, events)

		require.Len(t, impacts, 1)
		assert.Equal(t, workID.String(), impacts[0].CategoryID)
		assert.Equal(t, 3, impacts[0].DaysWith)
		assert.Equal(t, 3, impacts[0].DaysWithout)
		assert.Equal(t, 5.0, impacts[0].WithMean)
		assert.Equal(t, 2.0, impacts[0].WithoutMean)
		assert.Equal(t, 3.0, impacts[0].Delta)
	})
}

func TestProductivity(t *testing.T) {
	agg := NewAggregator()

	t.Run("No Completed Events", func(t *testing.T) {
		resp := agg.Productivity(nil, []evententity.Event{
			timedEvent("2026-03-01 09:00", "2026-03-01 10:00", evententity.StatusScheduled, evententity.PriorityHigh),
		})
		assert.Len(t, resp.Hours, 24)
		assert.Empty(t, resp.BestHours)
	})

	t.Run("Mood Scales Weight", func(t *testing.T) {
		entries := []moodentity.DailyMoodEntry{entry("2026-03-01", 3)}
		events := []evententity.Event{
			timedEvent("2026-03-01 09:00", "2026-03-01 11:00", evententity.StatusCompleted, evententity.PriorityHigh),
		}
		resp := agg.Productivity(entries, events)

		// priority weight 3, rating 3/3 leaves it unchanged
		assert.Equal(t, 3.0, resp.Hours[9].Score)
		assert.Equal(t, 3.0, resp.Hours[10].Score)
		assert.Equal(t, 0.0, resp.Hours[11].Score)
		assert.Equal(t, []int{9, 10}, resp.BestHours)
	})

	t.Run("All Day Events Are Ignored", func(t *testing.T) {
		ev := timedEvent("2026-03-01 00:00", "2026-03-02 00:00", evententity.StatusCompleted, evententity.PriorityNormal)
		ev.AllDay = true
		resp := agg.Productivity(nil, []evententity.Event{ev})
		assert.Empty(t, resp.BestHours)
	})
}
