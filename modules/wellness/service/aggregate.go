package service

import (
	"sort"
	"time"

	evententity "wellness-planner/modules/event/entity"
	moodentity "wellness-planner/modules/mood/entity"
	"wellness-planner/modules/wellness/dto"

	"github.com/google/uuid"
)

// Aggregator computes wellness statistics from mood entries and events.
// All methods are pure so they can be exercised directly in tests.
type Aggregator struct {
	// GoodMoodThreshold - ratings at or above count toward the good streak
	GoodMoodThreshold int
	// MinSampleDays - category impact needs this many days on each side
	MinSampleDays int
	// TopHours returned by productivity scoring
	TopHours int
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		GoodMoodThreshold: 4,
		MinSampleDays:     3,
		TopHours:          3,
	}
}

// MonthlySummary folds one month of entries and events into a summary.
// Events are counted if they intersect the month; cancelled events are
// excluded from the completion rate.
func (a *Aggregator) MonthlySummary(year int, month int, entries []moodentity.DailyMoodEntry, events []evententity.Event, today time.Time) dto.MonthlySummary {
	summary := dto.MonthlySummary{Year: year, Month: month}

	var ratingSum int
	bestRating, worstRating := 0, 6
	for i := range entries {
		e := &entries[i]
		if e.Rating < 1 || e.Rating > 5 {
			continue
		}
		summary.EntryCount++
		ratingSum += e.Rating
		summary.RatingCounts[e.Rating-1]++
		if e.Rating > bestRating {
			bestRating = e.Rating
			summary.BestDay = e.Day()
		}
		if e.Rating < worstRating {
			worstRating = e.Rating
			summary.WorstDay = e.Day()
		}
	}
	if summary.EntryCount > 0 {
		summary.AverageRating = round2(float64(ratingSum) / float64(summary.EntryCount))
	}

	eventsPerDay := map[string]int{}
	var completed, finished int
	for i := range events {
		ev := &events[i]
		summary.EventsScheduled++
		day := ev.StartTime.Format("2006-01-02")
		eventsPerDay[day]++
		switch ev.Status {
		case evententity.StatusCompleted:
			completed++
			finished++
		case evententity.StatusCancelled:
			// excluded from the completion denominator
		default:
			if ev.EndTime.Before(today) {
				finished++
			}
		}
	}
	summary.EventsCompleted = completed
	if finished > 0 {
		summary.CompletionRate = round2(float64(completed) / float64(finished))
	}
	for day, count := range eventsPerDay {
		if count > summary.BusiestDayCount || (count == summary.BusiestDayCount && day < summary.BusiestDay) {
			summary.BusiestDay = day
			summary.BusiestDayCount = count
		}
	}

	summary.Streaks = a.Streaks(entries, today)
	return summary
}

// Streaks walks the entries by day. Current streaks count back from the
// reference day; a missing entry for the reference day itself does not
// break them (the user may simply not have logged yet).
func (a *Aggregator) Streaks(entries []moodentity.DailyMoodEntry, today time.Time) dto.Streaks {
	var streaks dto.Streaks
	if len(entries) == 0 {
		return streaks
	}

	byDay := make(map[string]int, len(entries))
	for i := range entries {
		byDay[entries[i].Day()] = entries[i].Rating
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	// Longest runs over the whole span
	var runLog, runGood int
	var prev time.Time
	for _, day := range days {
		date, _ := time.Parse("2006-01-02", day)
		if !prev.IsZero() && date.Sub(prev) == 24*time.Hour {
			runLog++
		} else {
			runLog = 1
		}
		if byDay[day] >= a.GoodMoodThreshold {
			if !prev.IsZero() && date.Sub(prev) == 24*time.Hour && runGood > 0 {
				runGood++
			} else {
				runGood = 1
			}
		} else {
			runGood = 0
		}
		if runLog > streaks.LongestLogging {
			streaks.LongestLogging = runLog
		}
		if runGood > streaks.LongestGood {
			streaks.LongestGood = runGood
		}
		prev = date
	}

	// Current runs counting back from today, tolerating a missing today
	day := today.Truncate(24 * time.Hour)
	if _, ok := byDay[day.Format("2006-01-02")]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	for {
		rating, ok := byDay[day.Format("2006-01-02")]
		if !ok {
			break
		}
		streaks.CurrentLogging++
		if rating >= a.GoodMoodThreshold && streaks.CurrentGood == streaks.CurrentLogging-1 {
			streaks.CurrentGood++
		}
		day = day.AddDate(0, 0, -1)
	}
	return streaks
}

// CategoryImpact splits logged days into with/without days per category
// and compares mean ratings. Categories without enough days on both
// sides are skipped rather than reported on thin evidence.
func (a *Aggregator) CategoryImpact(entries []moodentity.DailyMoodEntry, events []evententity.Event) []dto.CategoryImpact {
	ratingByDay := make(map[string]int, len(entries))
	for i := range entries {
		ratingByDay[entries[i].Day()] = entries[i].Rating
	}
	if len(ratingByDay) == 0 {
		return []dto.CategoryImpact{}
	}

	categoryDays := map[uuid.UUID]map[string]bool{}
	for i := range events {
		ev := &events[i]
		if ev.CategoryID == nil || ev.Status == evententity.StatusCancelled {
			continue
		}
		day := ev.StartTime.Format("2006-01-02")
		if _, logged := ratingByDay[day]; !logged {
			continue
		}
		if categoryDays[*ev.CategoryID] == nil {
			categoryDays[*ev.CategoryID] = map[string]bool{}
		}
		categoryDays[*ev.CategoryID][day] = true
	}

	impacts := []dto.CategoryImpact{}
	for categoryID, withDays := range categoryDays {
		var withSum, withoutSum, withN, withoutN int
		for day, rating := range ratingByDay {
			if withDays[day] {
				withSum += rating
				withN++
			} else {
				withoutSum += rating
				withoutN++
			}
		}
		if withN < a.MinSampleDays || withoutN < a.MinSampleDays {
			continue
		}
		withMean := float64(withSum) / float64(withN)
		withoutMean := float64(withoutSum) / float64(withoutN)
		impacts = append(impacts, dto.CategoryImpact{
			CategoryID:  categoryID.String(),
			DaysWith:    withN,
			DaysWithout: withoutN,
			WithMean:    round2(withMean),
			WithoutMean: round2(withoutMean),
			Delta:       round2(withMean - withoutMean),
		})
	}

	sort.Slice(impacts, func(i, j int) bool {
		if impacts[i].Delta != impacts[j].Delta {
			return impacts[i].Delta > impacts[j].Delta
		}
		return impacts[i].CategoryID < impacts[j].CategoryID
	})
	return impacts
}

// Productivity scores each hour of day from completed events. An hour
// earns the event's priority weight for every completed event covering
// it, scaled by the same-day mood when one was logged.
func (a *Aggregator) Productivity(entries []moodentity.DailyMoodEntry, events []evententity.Event) dto.ProductivityResponse {
	ratingByDay := make(map[string]int, len(entries))
	for i := range entries {
		ratingByDay[entries[i].Day()] = entries[i].Rating
	}

	var scores [24]float64
	for i := range events {
		ev := &events[i]
		if ev.Status != evententity.StatusCompleted || ev.AllDay {
			continue
		}
		weight := float64(ev.Priority.Weight())
		if rating, ok := ratingByDay[ev.StartTime.Format("2006-01-02")]; ok {
			weight *= float64(rating) / 3.0
		}
		for t := ev.StartTime.Truncate(time.Hour); t.Before(ev.EndTime); t = t.Add(time.Hour) {
			scores[t.Hour()] += weight
		}
	}

	resp := dto.ProductivityResponse{Hours: make([]dto.HourScore, 24), BestHours: []int{}}
	ranked := make([]dto.HourScore, 24)
	for h := 0; h < 24; h++ {
		resp.Hours[h] = dto.HourScore{Hour: h, Score: round2(scores[h])}
		ranked[h] = resp.Hours[h]
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Hour < ranked[j].Hour
	})
	for i := 0; i < a.TopHours && i < len(ranked); i++ {
		if ranked[i].Score <= 0 {
			break
		}
		resp.BestHours = append(resp.BestHours, ranked[i].Hour)
	}
	return resp
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int(v*100-0.5)) / 100
	}
	return float64(int(v*100+0.5)) / 100
}
