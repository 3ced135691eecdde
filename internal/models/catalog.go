// internal/models/catalog.go
package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/timeofday"
)

type Court struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	EventRatePerHour int64  `json:"eventRatePerHour"`
}

func CourtFromDB(row dbgen.Court) Court {
	return Court{
		ID:               row.ID,
		Name:             row.Name,
		Color:            row.Color,
		EventRatePerHour: row.EventRatePerHour,
	}
}

func CourtsFromDB(rows []dbgen.Court) []Court {
	courts := make([]Court, 0, len(rows))
	for _, row := range rows {
		courts = append(courts, CourtFromDB(row))
	}
	return courts
}

// EncodeDays stores weekdays as a sorted, de-duplicated "0,1,..." list.
func EncodeDays(days []time.Weekday) string {
	seen := make(map[time.Weekday]bool, len(days))
	sorted := make([]int, 0, len(days))
	for _, day := range days {
		if seen[day] {
			continue
		}
		seen[day] = true
		sorted = append(sorted, int(day))
	}
	sort.Ints(sorted)

	parts := make([]string, 0, len(sorted))
	for _, day := range sorted {
		parts = append(parts, strconv.Itoa(day))
	}
	return strings.Join(parts, ",")
}

func DecodeDays(value string) ([]time.Weekday, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []time.Weekday{}, nil
	}
	parts := strings.Split(value, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || day < 0 || day > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		days = append(days, time.Weekday(day))
	}
	return days, nil
}

func RuleFromDB(row dbgen.PriceRule) (pricing.Rule, error) {
	days, err := DecodeDays(row.DaysOfWeek)
	if err != nil {
		return pricing.Rule{}, fmt.Errorf("price rule %d: %w", row.ID, err)
	}
	return pricing.Rule{
		ID:           row.ID,
		Name:         row.Name,
		Tier:         pricing.Tier(row.Tier),
		CourtID:      row.CourtID.String,
		DaysOfWeek:   days,
		StartTime:    shortClock(row.StartTime),
		EndTime:      shortClock(row.EndTime),
		PricePerHour: row.PricePerHour,
		Priority:     row.Priority,
	}, nil
}

func RulesFromDB(rows []dbgen.PriceRule) ([]pricing.Rule, error) {
	rules := make([]pricing.Rule, 0, len(rows))
	for _, row := range rows {
		rule, err := RuleFromDB(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// A NULL days_of_week means the package is offered every day.
func PackageFromDB(row dbgen.Package) (pricing.Package, error) {
	var days []time.Weekday
	if row.DaysOfWeek.Valid {
		decoded, err := DecodeDays(row.DaysOfWeek.String)
		if err != nil {
			return pricing.Package{}, fmt.Errorf("package %d: %w", row.ID, err)
		}
		days = decoded
	}
	return pricing.Package{
		ID:          row.ID,
		Name:        row.Name,
		CourtID:     row.CourtID,
		DaysOfWeek:  days,
		StartTime:   shortClock(row.StartTime),
		EndTime:     shortClock(row.EndTime),
		TotalPrice:  row.TotalPrice,
		BadgeText:   row.BadgeText.String,
		Description: row.Description.String,
	}, nil
}

func PackagesFromDB(rows []dbgen.Package) ([]pricing.Package, error) {
	packages := make([]pricing.Package, 0, len(rows))
	for _, row := range rows {
		pkg, err := PackageFromDB(row)
		if err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// shortClock turns the stored "HH:MM:SS" into "HH:MM". Malformed values pass
// through so the resolver reports them with their field name.
func shortClock(stored string) string {
	minutes, err := timeofday.ToMinutes(stored)
	if err != nil {
		return stored
	}
	return timeofday.Short(minutes)
}
