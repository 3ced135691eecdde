package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/codr1/Courtside/internal/timeofday"
)

const (
	// EventMinPeople switches pricing from the rule catalog to event tiers.
	EventMinPeople = 50

	DefaultRoundingUnit = 100
)

var eventTiers = []struct {
	MinPeople   int
	RatePerHour int64
}{
	{MinPeople: 200, RatePerHour: 400000},
	{MinPeople: 150, RatePerHour: 300000},
	{MinPeople: 100, RatePerHour: 250000},
}

type Subscription string

const (
	SubscriptionDaily      Subscription = "daily"
	SubscriptionMonthly    Subscription = "monthly"
	SubscriptionThreeMonth Subscription = "three_month"
)

func ParseSubscription(value string) (Subscription, error) {
	switch sub := Subscription(strings.ToLower(strings.TrimSpace(value))); sub {
	case "":
		return SubscriptionDaily, nil
	case SubscriptionDaily, SubscriptionMonthly, SubscriptionThreeMonth:
		return sub, nil
	default:
		return "", &timeofday.ValidationError{Field: "subscription_type", Value: value}
	}
}

// DiscountPercent is the commitment discount applied to the final total.
func (s Subscription) DiscountPercent() int {
	switch s {
	case SubscriptionMonthly:
		return 10
	case SubscriptionThreeMonth:
		return 20
	default:
		return 0
	}
}

// Request is a prospective reservation window. EndTime earlier than StartTime
// means the booking runs past midnight into the next day.
type Request struct {
	Date      string
	StartTime string
	EndTime   string
	CourtID   string
}

// SlotCharge is the price of one 30-minute slot.
type SlotCharge struct {
	Date     string  `json:"date"`
	Start    string  `json:"start"`
	RuleID   int64   `json:"ruleId,omitempty"`
	Rate     int64   `json:"ratePerHour"`
	Amount   float64 `json:"amount"`
	Fallback bool    `json:"fallback,omitempty"`
}

type Quote struct {
	Subtotal        float64      `json:"subtotal"`
	DiscountPercent int          `json:"discountPercent"`
	Total           float64      `json:"total"`
	Rounded         int64        `json:"rounded"`
	Event           bool         `json:"event"`
	Breakdown       []string     `json:"breakdown"`
	Slots           []SlotCharge `json:"slots,omitempty"`
}

// Resolver prices requests against a rule catalog. A zero FallbackRatePerHour
// turns uncovered slots into a ConfigurationError; a positive one prices them
// at that rate and notes the anomaly in the breakdown.
type Resolver struct {
	FallbackRatePerHour int64
	RoundingUnit        int64
}

// Price sums the half-hour rate of the winning rule for every slot in
// [start, end). The total is not rounded.
func (r Resolver) Price(req Request, rules []Rule) (Quote, error) {
	weekday, err := timeofday.Weekday("date", req.Date)
	if err != nil {
		return Quote{}, err
	}
	start, end, err := timeofday.Span("start_time", req.StartTime, "end_time", req.EndTime)
	if err != nil {
		return Quote{}, err
	}
	nextDate, err := timeofday.AddDays(req.Date, 1)
	if err != nil {
		return Quote{}, err
	}
	compiled, err := compileRules(rules)
	if err != nil {
		return Quote{}, err
	}

	quote := Quote{Breakdown: []string{}}
	var gaps []Gap
	for current := start; current < end; current += SlotMinutes {
		checkTime := current % timeofday.MinutesPerDay
		checkDay := weekday
		slotDate := req.Date
		if current >= timeofday.MinutesPerDay {
			checkDay = (weekday + 1) % 7
			slotDate = nextDate
		}

		charge := SlotCharge{Date: slotDate, Start: timeofday.Short(checkTime)}
		rule, ok := selectRule(compiled, req.CourtID, checkDay, checkTime)
		switch {
		case ok:
			charge.RuleID = rule.ID
			charge.Rate = rule.PricePerHour
		case r.FallbackRatePerHour > 0:
			charge.Rate = r.FallbackRatePerHour
			charge.Fallback = true
		default:
			gaps = append(gaps, Gap{CourtID: req.CourtID, Date: slotDate, Weekday: checkDay, Start: charge.Start})
			continue
		}
		charge.Amount = float64(charge.Rate) / 2
		quote.Subtotal += charge.Amount
		quote.Slots = append(quote.Slots, charge)
	}
	if len(gaps) > 0 {
		return Quote{}, &ConfigurationError{Gaps: gaps}
	}

	quote.Total = quote.Subtotal
	quote.Breakdown = summarize(quote.Slots, rules)
	return quote, nil
}

// Input carries everything Calculate needs beyond the catalog.
type Input struct {
	Request
	PeopleCount    int
	Subscription   Subscription
	CourtEventRate int64
}

// Calculate applies event pricing or rule pricing, then the subscription
// discount, then rounding.
func (r Resolver) Calculate(in Input, rules []Rule) (Quote, error) {
	var (
		quote Quote
		err   error
	)
	if in.PeopleCount >= EventMinPeople {
		quote, err = EventPrice(in.Request, in.PeopleCount, in.CourtEventRate)
	} else {
		quote, err = r.Price(in.Request, rules)
	}
	if err != nil {
		return Quote{}, err
	}

	quote.DiscountPercent = in.Subscription.DiscountPercent()
	if quote.DiscountPercent > 0 {
		quote.Total = quote.Subtotal * float64(100-quote.DiscountPercent) / 100
		quote.Breakdown = append(quote.Breakdown, fmt.Sprintf("%s discount %d%%", in.Subscription, quote.DiscountPercent))
	}
	quote.Rounded = Round(quote.Total, r.RoundingUnit)
	return quote, nil
}

// EventPrice charges a flat hourly rate chosen by headcount for the whole
// window. The rule catalog is not consulted.
func EventPrice(req Request, peopleCount int, courtRate int64) (Quote, error) {
	start, end, err := timeofday.Span("start_time", req.StartTime, "end_time", req.EndTime)
	if err != nil {
		return Quote{}, err
	}
	rate := courtRate
	for _, tier := range eventTiers {
		if peopleCount >= tier.MinPeople {
			rate = tier.RatePerHour
			break
		}
	}
	hours := float64(end-start) / 60
	subtotal := float64(rate) * hours
	return Quote{
		Subtotal: subtotal,
		Total:    subtotal,
		Event:    true,
		Breakdown: []string{
			fmt.Sprintf("Event rate for %d people: %d/h x %.1fh", peopleCount, rate, hours),
		},
	}, nil
}

// Round floors total to a multiple of unit.
func Round(total float64, unit int64) int64 {
	if unit <= 0 {
		unit = DefaultRoundingUnit
	}
	return int64(math.Floor(total/float64(unit))) * unit
}

// summarize collapses consecutive slots priced by the same rule into one line.
func summarize(slots []SlotCharge, rules []Rule) []string {
	names := make(map[int64]string, len(rules))
	for _, rule := range rules {
		names[rule.ID] = rule.Name
	}

	lines := []string{}
	for i := 0; i < len(slots); {
		j := i + 1
		for j < len(slots) && slots[j].RuleID == slots[i].RuleID && slots[j].Fallback == slots[i].Fallback && slots[j].Date == slots[i].Date {
			j++
		}
		var amount float64
		for _, slot := range slots[i:j] {
			amount += slot.Amount
		}
		startMinutes, _ := timeofday.ToMinutes(slots[i].Start)
		endLabel := timeofday.Short(startMinutes + (j-i)*SlotMinutes)
		if slots[i].Fallback {
			lines = append(lines, fmt.Sprintf("No pricing rule for %s %s-%s; fallback %d/h applied: %.0f", slots[i].Date, slots[i].Start, endLabel, slots[i].Rate, amount))
		} else {
			lines = append(lines, fmt.Sprintf("%s %s %s-%s @ %d/h: %.0f", names[slots[i].RuleID], slots[i].Date, slots[i].Start, endLabel, slots[i].Rate, amount))
		}
		i = j
	}
	return lines
}
