// Package pricing computes reservation prices from the rule catalog, the
// event headcount tiers and the fixed-price packages.
package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codr1/Courtside/internal/timeofday"
)

// SlotMinutes is the pricing resolution.
const SlotMinutes = 30

type Tier string

const (
	TierStandard Tier = "standard"
	TierS        Tier = "s"
	TierSS       Tier = "ss"
	TierWeekend  Tier = "weekend"
)

func ParseTier(value string) (Tier, error) {
	switch tier := Tier(strings.ToLower(strings.TrimSpace(value))); tier {
	case TierStandard, TierS, TierSS, TierWeekend:
		return tier, nil
	case "":
		return TierStandard, nil
	default:
		return "", &timeofday.ValidationError{Field: "tier", Value: value}
	}
}

// Rule prices the half-open window [StartTime, EndTime) on DaysOfWeek.
// An empty CourtID applies to every court.
type Rule struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Tier         Tier           `json:"tier"`
	CourtID      string         `json:"courtId,omitempty"`
	DaysOfWeek   []time.Weekday `json:"daysOfWeek"`
	StartTime    string         `json:"startTime"`
	EndTime      string         `json:"endTime"`
	PricePerHour int64          `json:"pricePerHour"`
	Priority     int64          `json:"priority"`
}

// ValidateRule rejects rules the resolver cannot price deterministically.
// Windows crossing midnight must be split into two rules.
func ValidateRule(rule Rule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return &timeofday.ValidationError{Field: "name", Value: rule.Name}
	}
	start, err := timeofday.FieldMinutes("start_time", rule.StartTime)
	if err != nil {
		return err
	}
	end, err := timeofday.FieldMinutes("end_time", rule.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return &timeofday.ValidationError{Field: "end_time", Value: rule.EndTime}
	}
	if len(rule.DaysOfWeek) == 0 {
		return &timeofday.ValidationError{Field: "days_of_week", Value: "[]"}
	}
	for _, day := range rule.DaysOfWeek {
		if day < time.Sunday || day > time.Saturday {
			return &timeofday.ValidationError{Field: "days_of_week", Value: fmt.Sprint(int(day))}
		}
	}
	if rule.PricePerHour < 0 {
		return &timeofday.ValidationError{Field: "price_per_hour", Value: fmt.Sprint(rule.PricePerHour)}
	}
	return nil
}

type compiledRule struct {
	rule  Rule
	start int
	end   int
	days  [7]bool
}

func (c compiledRule) matches(courtID string, day time.Weekday, minute int) bool {
	if c.rule.CourtID != "" && c.rule.CourtID != courtID {
		return false
	}
	if !c.days[day] {
		return false
	}
	return c.start <= minute && minute < c.end
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		start, err := timeofday.FieldMinutes(fmt.Sprintf("rules[%d].start_time", i), rule.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timeofday.FieldMinutes(fmt.Sprintf("rules[%d].end_time", i), rule.EndTime)
		if err != nil {
			return nil, err
		}
		c := compiledRule{rule: rule, start: start, end: end}
		for _, day := range rule.DaysOfWeek {
			if day >= time.Sunday && day <= time.Saturday {
				c.days[day] = true
			}
		}
		compiled = append(compiled, c)
	}
	// Highest priority first, lowest ID breaks ties.
	sort.SliceStable(compiled, func(i, j int) bool {
		if compiled[i].rule.Priority != compiled[j].rule.Priority {
			return compiled[i].rule.Priority > compiled[j].rule.Priority
		}
		return compiled[i].rule.ID < compiled[j].rule.ID
	})
	return compiled, nil
}

func selectRule(compiled []compiledRule, courtID string, day time.Weekday, minute int) (Rule, bool) {
	for _, c := range compiled {
		if c.matches(courtID, day, minute) {
			return c.rule, true
		}
	}
	return Rule{}, false
}

// Gap is a slot no rule covers.
type Gap struct {
	CourtID string       `json:"courtId"`
	Date    string       `json:"date,omitempty"`
	Weekday time.Weekday `json:"weekday"`
	Start   string       `json:"start"`
}

func (g Gap) String() string {
	label := g.Weekday.String()[:3]
	if g.Date != "" {
		label = g.Date
	}
	return fmt.Sprintf("%s %s %s", g.CourtID, label, g.Start)
}

// ConfigurationError reports that the rule catalog does not cover a slot that
// had to be priced.
type ConfigurationError struct {
	Gaps []Gap
}

func (e *ConfigurationError) Error() string {
	labels := make([]string, 0, len(e.Gaps))
	for i, gap := range e.Gaps {
		if i == 5 {
			labels = append(labels, fmt.Sprintf("and %d more", len(e.Gaps)-5))
			break
		}
		labels = append(labels, gap.String())
	}
	return "pricing catalog has no rule for: " + strings.Join(labels, ", ")
}

// CheckCoverage lists every (court, weekday, slot) without an applicable rule.
func CheckCoverage(rules []Rule, courtIDs []string) ([]Gap, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	var gaps []Gap
	for _, courtID := range courtIDs {
		for day := time.Sunday; day <= time.Saturday; day++ {
			for minute := 0; minute < timeofday.MinutesPerDay; minute += SlotMinutes {
				if _, ok := selectRule(compiled, courtID, day, minute); ok {
					continue
				}
				gaps = append(gaps, Gap{CourtID: courtID, Weekday: day, Start: timeofday.Short(minute)})
			}
		}
	}
	return gaps, nil
}
