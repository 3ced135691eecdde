package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/timeofday"
)

type QuoteRequest struct {
	CourtID          string   `json:"courtId"`
	Date             string   `json:"date"`
	StartTime        string   `json:"startTime"`
	EndTime          string   `json:"endTime"`
	Slots            []string `json:"slots,omitempty"`
	SlotMinutes      int      `json:"slotMinutes,omitempty"`
	PeopleCount      int      `json:"peopleCount"`
	SubscriptionType string   `json:"subscriptionType"`
	PackageID        int64    `json:"packageId,omitempty"`
}

type QuoteResult struct {
	CourtID   string            `json:"courtId"`
	Date      string            `json:"date"`
	StartTime string            `json:"startTime"`
	EndTime   string            `json:"endTime"`
	PackageID int64             `json:"packageId,omitempty"`
	Quote     pricing.Quote     `json:"quote"`
	Packages  []pricing.Package `json:"packages"`
}

// Quote prices a prospective reservation and lists the packages that cover
// its window. Choosing a package replaces both the window and the price.
func (e *Engine) Quote(ctx context.Context, req QuoteRequest) (QuoteResult, error) {
	win, err := e.window(req.CourtID, req.Date, req.StartTime, req.EndTime, req.Slots, req.SlotMinutes)
	if err != nil {
		return QuoteResult{}, err
	}
	if win.Date == "" {
		return QuoteResult{}, &ValidationError{Field: "date", Message: "is required"}
	}
	subscription, err := pricing.ParseSubscription(req.SubscriptionType)
	if err != nil {
		return QuoteResult{}, err
	}

	cat, err := loadCatalog(ctx, e.db.Queries, win.CourtID)
	if err != nil {
		return QuoteResult{}, err
	}
	result, err := e.price(cat, win, req.PeopleCount, subscription, req.PackageID)
	if err != nil {
		logPricingFailure(ctx, err, win)
		return QuoteResult{}, err
	}
	return result, nil
}

// price runs package, event or rule pricing for one date.
func (e *Engine) price(cat catalog, win pricing.Request, peopleCount int, subscription pricing.Subscription, packageID int64) (QuoteResult, error) {
	if peopleCount <= 0 {
		peopleCount = 1
	}
	weekday, err := timeofday.Weekday("date", win.Date)
	if err != nil {
		return QuoteResult{}, err
	}
	applicable, err := pricing.FindApplicablePackages(win.CourtID, weekday, win.StartTime, win.EndTime, cat.packages)
	if err != nil {
		return QuoteResult{}, err
	}

	result := QuoteResult{
		CourtID:   win.CourtID,
		Date:      win.Date,
		StartTime: win.StartTime,
		EndTime:   win.EndTime,
		Packages:  applicable,
	}
	if result.Packages == nil {
		result.Packages = []pricing.Package{}
	}

	if packageID != 0 {
		pkg, ok := findPackage(applicable, packageID)
		if !ok {
			return QuoteResult{}, &ValidationError{
				Field:   "package_id",
				Message: fmt.Sprintf("package %d is not offered for this court and window", packageID),
			}
		}
		applied := pkg.Apply(win)
		result.StartTime = applied.StartTime
		result.EndTime = applied.EndTime
		result.PackageID = pkg.ID
		result.Quote = pkg.Quote(e.opts.Resolver.RoundingUnit)
		return result, nil
	}

	quote, err := e.opts.Resolver.Calculate(pricing.Input{
		Request:        win,
		PeopleCount:    peopleCount,
		Subscription:   subscription,
		CourtEventRate: cat.court.EventRatePerHour,
	}, cat.rules)
	if err != nil {
		return QuoteResult{}, err
	}
	result.Quote = quote
	return result, nil
}

func findPackage(packages []pricing.Package, id int64) (pricing.Package, bool) {
	for _, pkg := range packages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return pricing.Package{}, false
}

// logPricingFailure surfaces catalog gaps to the operator; they are not the
// caller's mistake.
func logPricingFailure(ctx context.Context, err error, win pricing.Request) {
	var cfgErr *pricing.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return
	}
	log.Ctx(ctx).Error().
		Err(err).
		Str("court_id", win.CourtID).
		Str("date", win.Date).
		Int("gap_count", len(cfgErr.Gaps)).
		Msg("Pricing catalog does not cover requested window")
}

// CatalogGaps lists every court slot the active rule catalog leaves unpriced.
func (e *Engine) CatalogGaps(ctx context.Context) ([]pricing.Gap, error) {
	courts, err := e.db.Queries.ListCourts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	ids := make([]string, 0, len(courts))
	for _, court := range courts {
		ids = append(ids, court.ID)
	}
	rules, err := e.activeRules(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.CheckCoverage(rules, ids)
}

func (e *Engine) activeRules(ctx context.Context) ([]pricing.Rule, error) {
	rows, err := e.db.Queries.ListActivePriceRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list price rules: %w", err)
	}
	return models.RulesFromDB(rows)
}
