package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/Courtside/internal/timeofday"
)

// Package is a fixed window sold at a flat price. A nil DaysOfWeek means the
// package is offered every day.
type Package struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	CourtID     string         `json:"courtId"`
	DaysOfWeek  []time.Weekday `json:"daysOfWeek,omitempty"`
	StartTime   string         `json:"startTime"`
	EndTime     string         `json:"endTime"`
	TotalPrice  int64          `json:"totalPrice"`
	BadgeText   string         `json:"badgeText,omitempty"`
	Description string         `json:"description,omitempty"`
}

func (p Package) offeredOn(weekday time.Weekday) bool {
	if p.DaysOfWeek == nil {
		return true
	}
	for _, day := range p.DaysOfWeek {
		if day == weekday {
			return true
		}
	}
	return false
}

// FindApplicablePackages returns the packages on courtID and weekday whose
// fixed window fully contains [start, end). Partial overlap does not qualify.
func FindApplicablePackages(courtID string, weekday time.Weekday, start, end string, packages []Package) ([]Package, error) {
	reqStart, reqEnd, err := timeofday.Span("start_time", start, "end_time", end)
	if err != nil {
		return nil, err
	}

	var matches []Package
	for _, pkg := range packages {
		if pkg.CourtID != courtID || !pkg.offeredOn(weekday) {
			continue
		}
		pkgStart, pkgEnd, err := timeofday.Span("package.start_time", pkg.StartTime, "package.end_time", pkg.EndTime)
		if err != nil {
			return nil, err
		}
		if pkgStart <= reqStart && pkgEnd >= reqEnd {
			matches = append(matches, pkg)
		}
	}
	return matches, nil
}

// ValidatePackage rejects packages whose window is empty or crosses midnight.
func ValidatePackage(p Package) error {
	if strings.TrimSpace(p.Name) == "" {
		return &timeofday.ValidationError{Field: "name", Value: p.Name}
	}
	if strings.TrimSpace(p.CourtID) == "" {
		return &timeofday.ValidationError{Field: "court_id", Value: p.CourtID}
	}
	start, err := timeofday.FieldMinutes("start_time", p.StartTime)
	if err != nil {
		return err
	}
	end, err := timeofday.FieldMinutes("end_time", p.EndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return &timeofday.ValidationError{Field: "end_time", Value: p.EndTime}
	}
	for _, day := range p.DaysOfWeek {
		if day < time.Sunday || day > time.Saturday {
			return &timeofday.ValidationError{Field: "days_of_week", Value: fmt.Sprint(int(day))}
		}
	}
	if p.TotalPrice < 0 {
		return &timeofday.ValidationError{Field: "total_price", Value: fmt.Sprint(p.TotalPrice)}
	}
	return nil
}

// Apply replaces the request window with the package's own window.
func (p Package) Apply(req Request) Request {
	req.StartTime = p.StartTime
	req.EndTime = p.EndTime
	return req
}

// Quote prices the package as a single flat line.
func (p Package) Quote(roundingUnit int64) Quote {
	total := float64(p.TotalPrice)
	return Quote{
		Subtotal:  total,
		Total:     total,
		Rounded:   Round(total, roundingUnit),
		Breakdown: []string{"Package " + p.Name + " " + p.StartTime + "-" + p.EndTime},
	}
}
