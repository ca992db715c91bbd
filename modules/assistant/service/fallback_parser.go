package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"wellness-planner/modules/assistant/dto"
)

// fallbackParser extracts an event draft from free text without the
// model: explicit dates, clock times, day words and priority keywords.
// It is intentionally conservative and reports low confidence.
type fallbackParser struct{}

var (
	isoDatePattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	clockPattern   = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
)

var priorityKeywords = map[string]string{
	"urgent":    "high",
	"important": "high",
	"critical":  "high",
	"asap":      "high",
	"maybe":     "low",
	"optional":  "low",
	"sometime":  "low",
}

// defaultDurationMinutes when the text names only a start time
const defaultDurationMinutes = 60

func (p *fallbackParser) Parse(text string, now time.Time) dto.ParsedEvent {
	lower := strings.ToLower(text)
	day := now.Truncate(24 * time.Hour)

	switch {
	case strings.Contains(lower, "tomorrow"):
		day = day.AddDate(0, 0, 1)
	case strings.Contains(lower, "next week"):
		day = day.AddDate(0, 0, 7)
	}
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if parsed, err := time.Parse("2006-01-02", m[0]); err == nil {
			day = parsed
		}
	}
	if weekday, ok := findWeekday(lower); ok {
		day = nextWeekday(day, weekday)
	}

	start := day.Add(9 * time.Hour)
	if hour, minute, ok := p.findTime(lower); ok {
		start = day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}
	end := start.Add(defaultDurationMinutes * time.Minute)

	priority := "normal"
	for keyword, level := range priorityKeywords {
		if strings.Contains(lower, keyword) {
			priority = level
			break
		}
	}

	return dto.ParsedEvent{
		Title:      p.title(text),
		StartTime:  start,
		EndTime:    end,
		Priority:   priority,
		Confidence: 0.3,
		Source:     "heuristic",
	}
}

// findTime picks the first plausible clock time mention
func (p *fallbackParser) findTime(lower string) (int, int, bool) {
	for _, m := range clockPattern.FindAllStringSubmatch(lower, -1) {
		hour, err := strconv.Atoi(m[1])
		if err != nil || hour > 23 {
			continue
		}
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
			if minute > 59 {
				continue
			}
		}
		// Bare small numbers without am/pm or minutes are too ambiguous
		if m[3] == "" && m[2] == "" {
			continue
		}
		if m[3] == "pm" && hour < 12 {
			hour += 12
		}
		if m[3] == "am" && hour == 12 {
			hour = 0
		}
		return hour, minute, true
	}
	return 0, 0, false
}

// title strips date and time phrasing and keeps what remains
func (p *fallbackParser) title(text string) string {
	cleaned := isoDatePattern.ReplaceAllString(text, "")
	for _, word := range []string{"tomorrow", "today", "next week", "at "} {
		cleaned = strings.ReplaceAll(cleaned, word, "")
		cleaned = strings.ReplaceAll(cleaned, strings.Title(word), "")
	}
	cleaned = clockPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "New event"
	}
	return cleaned
}

func findWeekday(lower string) (time.Weekday, bool) {
	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		if strings.Contains(lower, strings.ToLower(weekday.String())) {
			return weekday, true
		}
	}
	return 0, false
}

// nextWeekday returns the next occurrence strictly after the base day
func nextWeekday(base time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(base.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return base.AddDate(0, 0, offset)
}
