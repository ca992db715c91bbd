package service

import (
	"fmt"
	"sort"
	"time"

	evententity "wellness-planner/modules/event/entity"
	moodentity "wellness-planner/modules/mood/entity"
	"wellness-planner/modules/recommendation/entity"
)

// Engine derives schedule suggestions for one day from the day's events
// and the recent mood history. It is deterministic and side-effect free.
type Engine struct {
	// OverloadHours - total scheduled hours that count as an overloaded day
	OverloadHours float64
	// OverloadEvents - event count that counts as overloaded even on a
	// day with short events
	OverloadEvents int
	// LowMoodStreak - consecutive days at or below LowMoodThreshold
	LowMoodStreak    int
	LowMoodThreshold int
	// LateHour - high priority events starting at or after this hour
	LateHour int
	// MinGapMinutes - gaps shorter than this do not count as a break
	MinGapMinutes int
	// MaxContiguousHours - a longer run of events without a real break
	// gets a recovery nudge
	MaxContiguousHours float64
	// MaxPerDay caps how many suggestions one day generates
	MaxPerDay int
}

func NewEngine() *Engine {
	return &Engine{
		OverloadHours:      8,
		OverloadEvents:     5,
		LowMoodStreak:      3,
		LowMoodThreshold:   2,
		LateHour:           21,
		MinGapMinutes:      45,
		MaxContiguousHours: 4,
		MaxPerDay:          3,
	}
}

// SuggestForDay runs every heuristic against the given day. Events must
// be the day's scheduled events; moods the trailing history ending at the
// day before. Highest scores win when the per-day cap trims the list.
func (e *Engine) SuggestForDay(day time.Time, events []evententity.Event, moods []moodentity.DailyMoodEntry) []entity.ScheduleSuggestion {
	day = day.Truncate(24 * time.Hour)

	scheduled := make([]evententity.Event, 0, len(events))
	for i := range events {
		if events[i].Status == evententity.StatusScheduled {
			scheduled = append(scheduled, events[i])
		}
	}
	sort.Slice(scheduled, func(i, j int) bool {
		return scheduled[i].StartTime.Before(scheduled[j].StartTime)
	})

	var suggestions []entity.ScheduleSuggestion
	if s := e.checkOverload(day, scheduled); s != nil {
		suggestions = append(suggestions, *s)
	}
	if s := e.checkLowMoodStreak(day, scheduled, moods); s != nil {
		suggestions = append(suggestions, *s)
	}
	if s := e.checkLateHighPriority(day, scheduled, moods); s != nil {
		suggestions = append(suggestions, *s)
	}
	if s := e.checkNoRecoveryGap(day, scheduled); s != nil {
		suggestions = append(suggestions, *s)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > e.MaxPerDay {
		suggestions = suggestions[:e.MaxPerDay]
	}
	return suggestions
}

// checkOverload flags days with too many events or too many scheduled
// hours and proposes moving the lowest priority event into the day's
// widest free slot.
func (e *Engine) checkOverload(day time.Time, scheduled []evententity.Event) *entity.ScheduleSuggestion {
	var total float64
	count := 0
	for i := range scheduled {
		if scheduled[i].AllDay {
			continue
		}
		count++
		total += scheduled[i].EndTime.Sub(scheduled[i].StartTime).Hours()
	}
	if total <= e.OverloadHours && count < e.OverloadEvents {
		return nil
	}

	var lightest *evententity.Event
	for i := range scheduled {
		ev := &scheduled[i]
		if ev.AllDay {
			continue
		}
		if lightest == nil || ev.Priority.Weight() < lightest.Priority.Weight() {
			lightest = ev
		}
	}

	message := fmt.Sprintf("You have %d events over %.1f hours scheduled. Consider moving something to another day.", count, total)
	if lightest != nil {
		message = fmt.Sprintf("You have %d events over %.1f hours scheduled. Consider moving %q to another day.", count, total, lightest.Title)
	}

	excess := total - e.OverloadHours
	if excess < 0 {
		excess = 0
	}
	score := 60 + int(excess*10)
	if score > 100 {
		score = 100
	}
	suggestion := &entity.ScheduleSuggestion{
		Type:       entity.TypeOverloadedDay,
		Message:    message,
		TargetDate: day,
		Score:      score,
	}
	if lightest != nil {
		eventID := lightest.ID
		suggestion.EventID = &eventID
	}
	if start, end := e.largestFreeGap(day, scheduled); !start.IsZero() {
		suggestion.SuggestedStart = &start
		suggestion.SuggestedEnd = &end
	}
	return suggestion
}

// checkLowMoodStreak proposes a self-care block in the day's largest free
// gap after a run of low mood days.
func (e *Engine) checkLowMoodStreak(day time.Time, scheduled []evententity.Event, moods []moodentity.DailyMoodEntry) *entity.ScheduleSuggestion {
	byDay := moodByDay(moods)

	streak := 0
	for d := day.AddDate(0, 0, -1); ; d = d.AddDate(0, 0, -1) {
		rating, ok := byDay[d.Format("2006-01-02")]
		if !ok || rating > e.LowMoodThreshold {
			break
		}
		streak++
	}
	if streak < e.LowMoodStreak {
		return nil
	}

	start, end := e.largestFreeGap(day, scheduled)
	suggestion := &entity.ScheduleSuggestion{
		Type:       entity.TypeLowMoodBreak,
		Message:    fmt.Sprintf("Your mood has been low for %d days. Block some time for yourself today.", streak),
		TargetDate: day,
		Score:      70 + 5*streak,
	}
	if suggestion.Score > 100 {
		suggestion.Score = 100
	}
	if !start.IsZero() {
		suggestion.SuggestedStart = &start
		suggestion.SuggestedEnd = &end
	}
	return suggestion
}

// checkLateHighPriority only fires on a low mood day. Mood is read from
// the day itself when logged, otherwise from the day before.
func (e *Engine) checkLateHighPriority(day time.Time, scheduled []evententity.Event, moods []moodentity.DailyMoodEntry) *entity.ScheduleSuggestion {
	byDay := moodByDay(moods)
	rating, ok := byDay[day.Format("2006-01-02")]
	if !ok {
		rating, ok = byDay[day.AddDate(0, 0, -1).Format("2006-01-02")]
	}
	if !ok || rating > e.LowMoodThreshold {
		return nil
	}

	for i := range scheduled {
		ev := &scheduled[i]
		if ev.AllDay || ev.Priority != evententity.PriorityHigh {
			continue
		}
		if ev.StartTime.Hour() >= e.LateHour {
			eventID := ev.ID
			return &entity.ScheduleSuggestion{
				Type:       entity.TypeLateHighStake,
				EventID:    &eventID,
				Message:    fmt.Sprintf("%q is high priority but starts late in the evening. An earlier slot may go better on a rough day.", ev.Title),
				TargetDate: day,
				Score:      55,
			}
		}
	}
	return nil
}

// checkNoRecoveryGap fires when events run contiguously for too long.
// Gaps shorter than MinGapMinutes do not break a run.
func (e *Engine) checkNoRecoveryGap(day time.Time, scheduled []evententity.Event) *entity.ScheduleSuggestion {
	timed := make([]evententity.Event, 0, len(scheduled))
	for i := range scheduled {
		if !scheduled[i].AllDay {
			timed = append(timed, scheduled[i])
		}
	}
	if len(timed) == 0 {
		return nil
	}

	minGap := time.Duration(e.MinGapMinutes) * time.Minute
	maxRun := time.Duration(e.MaxContiguousHours * float64(time.Hour))

	runStart, runEnd := timed[0].StartTime, timed[0].EndTime
	longest := runEnd.Sub(runStart)
	for i := 1; i < len(timed); i++ {
		if timed[i].StartTime.Sub(runEnd) >= minGap {
			runStart = timed[i].StartTime
			runEnd = timed[i].EndTime
		} else if timed[i].EndTime.After(runEnd) {
			runEnd = timed[i].EndTime
		}
		if runEnd.Sub(runStart) > longest {
			longest = runEnd.Sub(runStart)
		}
	}
	if longest <= maxRun {
		return nil
	}

	return &entity.ScheduleSuggestion{
		Type:       entity.TypeNoRecovery,
		Message:    fmt.Sprintf("You have %.1f hours of events without a real break. Try to leave a gap.", longest.Hours()),
		TargetDate: day,
		Score:      50,
	}
}

func moodByDay(moods []moodentity.DailyMoodEntry) map[string]int {
	byDay := make(map[string]int, len(moods))
	for i := range moods {
		byDay[moods[i].Day()] = moods[i].Rating
	}
	return byDay
}

// largestFreeGap scans waking hours (8:00 to 22:00) for the widest slot
// between scheduled events and returns up to one hour of it.
func (e *Engine) largestFreeGap(day time.Time, scheduled []evententity.Event) (time.Time, time.Time) {
	dayStart := day.Add(8 * time.Hour)
	dayEnd := day.Add(22 * time.Hour)

	busy := e.mergeBusy(scheduled, dayStart, dayEnd)

	var bestStart, bestEnd time.Time
	cursor := dayStart
	for _, interval := range busy {
		if interval.start.Sub(cursor) > bestEnd.Sub(bestStart) {
			bestStart, bestEnd = cursor, interval.start
		}
		if interval.end.After(cursor) {
			cursor = interval.end
		}
	}
	if dayEnd.Sub(cursor) > bestEnd.Sub(bestStart) {
		bestStart, bestEnd = cursor, dayEnd
	}

	if bestEnd.Sub(bestStart) < 30*time.Minute {
		return time.Time{}, time.Time{}
	}
	if bestEnd.Sub(bestStart) > time.Hour {
		bestEnd = bestStart.Add(time.Hour)
	}
	return bestStart, bestEnd
}

type interval struct {
	start, end time.Time
}

func (e *Engine) mergeBusy(scheduled []evententity.Event, clampStart, clampEnd time.Time) []interval {
	var busy []interval
	for i := range scheduled {
		ev := &scheduled[i]
		if ev.AllDay || !ev.Overlaps(clampStart, clampEnd) {
			continue
		}
		start, end := ev.StartTime, ev.EndTime
		if start.Before(clampStart) {
			start = clampStart
		}
		if end.After(clampEnd) {
			end = clampEnd
		}
		busy = append(busy, interval{start: start, end: end})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start.Before(busy[j].start) })

	var merged []interval
	for _, cur := range busy {
		if len(merged) > 0 && !cur.start.After(merged[len(merged)-1].end) {
			if cur.end.After(merged[len(merged)-1].end) {
				merged[len(merged)-1].end = cur.end
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}
