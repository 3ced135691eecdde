// Package recurrence expands weekly recurring reservations into concrete
// dates and plans edits to an existing series.
package recurrence

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/codr1/Courtside/internal/timeofday"
)

// MaxSpanDays bounds how many calendar days a single expansion walks.
const MaxSpanDays = 1000

var rruleWeekdays = [7]rrule.Weekday{
	time.Sunday:    rrule.SU,
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
}

// Rule is the stored definition of a recurring series.
type Rule struct {
	DaysOfWeek []time.Weekday `json:"daysOfWeek"`
	StartDate  string         `json:"startDate"`
	EndDate    string         `json:"endDate"`
}

// SpanDays is the inclusive number of calendar days the rule covers.
func (r Rule) SpanDays() (int, error) {
	start, err := timeofday.ParseDate("recurrence.start_date", r.StartDate)
	if err != nil {
		return 0, err
	}
	end, err := timeofday.ParseDate("recurrence.end_date", r.EndDate)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start).Round(time.Hour).Hours()/24) + 1, nil
}

// Dates expands the rule.
func (r Rule) Dates() ([]string, error) {
	return GenerateDates(r.StartDate, r.EndDate, r.DaysOfWeek)
}

// GenerateDates returns, in ascending order, every date between startDate and
// endDate (both inclusive) whose weekday is in weekdays. Expansion stops after
// MaxSpanDays days without reporting the truncation; callers that care check
// Rule.SpanDays first.
func GenerateDates(startDate, endDate string, weekdays []time.Weekday) ([]string, error) {
	if len(weekdays) == 0 || startDate == "" || endDate == "" {
		return []string{}, nil
	}
	start, err := timeofday.ParseDate("start_date", startDate)
	if err != nil {
		return nil, err
	}
	end, err := timeofday.ParseDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return []string{}, nil
	}
	if limit := start.AddDate(0, 0, MaxSpanDays-1); end.After(limit) {
		end = limit
	}

	byDay := make([]rrule.Weekday, 0, len(weekdays))
	seen := make(map[time.Weekday]bool, len(weekdays))
	for _, day := range weekdays {
		if day < time.Sunday || day > time.Saturday {
			return nil, &timeofday.ValidationError{Field: "days_of_week", Value: fmt.Sprint(int(day))}
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		byDay = append(byDay, rruleWeekdays[day])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Until:     end,
		Byweekday: byDay,
	})
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	occurrences := rule.All()
	dates := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		dates = append(dates, timeofday.FormatDate(occurrence))
	}
	return dates, nil
}

// Occurrence is one stored row of a series.
type Occurrence struct {
	ID   int64
	Date string
}

// SeriesPlan is the diff between a stored series and its new date set.
type SeriesPlan struct {
	Keep   []Occurrence
	Remove []Occurrence
	Add    []string
}

func (p SeriesPlan) Empty() bool {
	return len(p.Remove) == 0 && len(p.Add) == 0
}

// PlanSeriesEdit matches stored occurrences to the new dates. Rows whose date
// survives are kept (and later updated in place), rows whose date is gone are
// removed, and new dates are added. Duplicate rows on one date keep only the
// lowest id.
func PlanSeriesEdit(existing []Occurrence, dates []string) SeriesPlan {
	want := make(map[string]bool, len(dates))
	for _, date := range dates {
		want[date] = true
	}

	sorted := append([]Occurrence(nil), existing...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})

	var plan SeriesPlan
	kept := make(map[string]bool, len(sorted))
	for _, occurrence := range sorted {
		if want[occurrence.Date] && !kept[occurrence.Date] {
			kept[occurrence.Date] = true
			plan.Keep = append(plan.Keep, occurrence)
			continue
		}
		plan.Remove = append(plan.Remove, occurrence)
	}

	added := make(map[string]bool, len(dates))
	for _, date := range dates {
		if kept[date] || added[date] {
			continue
		}
		added[date] = true
		plan.Add = append(plan.Add, date)
	}
	sort.Strings(plan.Add)
	return plan
}
