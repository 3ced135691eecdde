// internal/api/catalog/handlers.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Courtside/internal/api/apiutil"
	dbgen "github.com/codr1/Courtside/internal/db/generated"
	"github.com/codr1/Courtside/internal/models"
	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/timeofday"
)

const (
	catalogQueryTimeout = 5 * time.Second
	// Coverage walks every court, weekday and half hour.
	coverageTimeout = 15 * time.Second
)

var (
	queries     catalogQueries
	coverage    coverageSource
	queriesOnce sync.Once
)

type catalogQueries interface {
	GetCourt(ctx context.Context, id string) (dbgen.Court, error)
	ListPriceRules(ctx context.Context) ([]dbgen.PriceRule, error)
	GetPriceRule(ctx context.Context, id int64) (dbgen.PriceRule, error)
	CreatePriceRule(ctx context.Context, arg dbgen.CreatePriceRuleParams) (dbgen.PriceRule, error)
	UpdatePriceRule(ctx context.Context, arg dbgen.UpdatePriceRuleParams) (dbgen.PriceRule, error)
	DeletePriceRule(ctx context.Context, id int64) (int64, error)
	ListActivePackages(ctx context.Context) ([]dbgen.Package, error)
	CreatePackage(ctx context.Context, arg dbgen.CreatePackageParams) (dbgen.Package, error)
	DeactivatePackage(ctx context.Context, id int64) (int64, error)
}

type coverageSource interface {
	CatalogGaps(ctx context.Context) ([]pricing.Gap, error)
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries, gaps coverageSource) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
		coverage = gaps
	})
}

func loadQueries(w http.ResponseWriter, r *http.Request) catalogQueries {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return queries
}

type ruleRequest struct {
	Name         string         `json:"name"`
	Tier         string         `json:"tier"`
	CourtID      string         `json:"courtId"`
	DaysOfWeek   []time.Weekday `json:"daysOfWeek"`
	StartTime    string         `json:"startTime"`
	EndTime      string         `json:"endTime"`
	PricePerHour int64          `json:"pricePerHour"`
	Priority     int64          `json:"priority"`
	IsActive     *bool          `json:"isActive"`
}

type ruleResponse struct {
	pricing.Rule
	IsActive bool `json:"isActive"`
}

func ruleResponseFromDB(row dbgen.PriceRule) (ruleResponse, error) {
	rule, err := models.RuleFromDB(row)
	if err != nil {
		return ruleResponse{}, err
	}
	return ruleResponse{Rule: rule, IsActive: row.IsActive}, nil
}

// ruleFields validates the request and converts it to stored columns.
func ruleFields(ctx context.Context, q catalogQueries, req ruleRequest) (dbgen.CreatePriceRuleParams, error) {
	tier, err := pricing.ParseTier(req.Tier)
	if err != nil {
		return dbgen.CreatePriceRuleParams{}, err
	}
	rule := pricing.Rule{
		Name:         strings.TrimSpace(req.Name),
		Tier:         tier,
		CourtID:      strings.TrimSpace(req.CourtID),
		DaysOfWeek:   req.DaysOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		PricePerHour: req.PricePerHour,
		Priority:     req.Priority,
	}
	if err := pricing.ValidateRule(rule); err != nil {
		return dbgen.CreatePriceRuleParams{}, err
	}
	if rule.CourtID != "" {
		if err := ensureCourt(ctx, q, rule.CourtID); err != nil {
			return dbgen.CreatePriceRuleParams{}, err
		}
	}
	start, err := timeofday.Normalize("start_time", rule.StartTime)
	if err != nil {
		return dbgen.CreatePriceRuleParams{}, err
	}
	end, err := timeofday.Normalize("end_time", rule.EndTime)
	if err != nil {
		return dbgen.CreatePriceRuleParams{}, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return dbgen.CreatePriceRuleParams{
		Name:         rule.Name,
		Tier:         string(rule.Tier),
		CourtID:      sql.NullString{String: rule.CourtID, Valid: rule.CourtID != ""},
		DaysOfWeek:   models.EncodeDays(rule.DaysOfWeek),
		StartTime:    start,
		EndTime:      end,
		PricePerHour: rule.PricePerHour,
		Priority:     rule.Priority,
		IsActive:     active,
	}, nil
}

func ensureCourt(ctx context.Context, q catalogQueries, courtID string) error {
	if _, err := q.GetCourt(ctx, courtID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apiutil.FieldError{Field: "court_id", Reason: "does not name a court"}
		}
		return fmt.Errorf("load court %s: %w", courtID, err)
	}
	return nil
}

// GET /api/v1/admin/price-rules
func HandlePriceRulesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	rows, err := q.ListPriceRules(ctx)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("list price rules: %w", err))
		return
	}
	rules := make([]ruleResponse, 0, len(rows))
	for _, row := range rows {
		rule, err := ruleResponseFromDB(row)
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		rules = append(rules, rule)
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, rules); err != nil {
		logger.Error().Err(err).Msg("Failed to write price rules response")
	}
}

// POST /api/v1/admin/price-rules
func HandlePriceRuleCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	var req ruleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	params, err := ruleFields(ctx, q, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	row, err := q.CreatePriceRule(ctx, params)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("create price rule: %w", err))
		return
	}
	created, err := ruleResponseFromDB(row)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("price_rule_id", row.ID).Str("tier", row.Tier).Msg("Price rule created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Int64("price_rule_id", row.ID).Msg("Failed to write price rule response")
	}
}

// PUT /api/v1/admin/price-rules/{id}
func HandlePriceRuleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var req ruleRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	params, err := ruleFields(ctx, q, req)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	row, err := q.UpdatePriceRule(ctx, dbgen.UpdatePriceRuleParams{
		Name:         params.Name,
		Tier:         params.Tier,
		CourtID:      params.CourtID,
		DaysOfWeek:   params.DaysOfWeek,
		StartTime:    params.StartTime,
		EndTime:      params.EndTime,
		PricePerHour: params.PricePerHour,
		Priority:     params.Priority,
		IsActive:     params.IsActive,
		ID:           id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Price rule not found", http.StatusNotFound)
			return
		}
		apiutil.WriteError(w, r, fmt.Errorf("update price rule %d: %w", id, err))
		return
	}
	updated, err := ruleResponseFromDB(row)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("price_rule_id", id).Msg("Price rule updated")
	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("price_rule_id", id).Msg("Failed to write price rule response")
	}
}

// DELETE /api/v1/admin/price-rules/{id}
func HandlePriceRuleDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	deleted, err := q.DeletePriceRule(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("delete price rule %d: %w", id, err))
		return
	}
	if deleted == 0 {
		http.Error(w, "Price rule not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("price_rule_id", id).Msg("Price rule deleted")
	w.WriteHeader(http.StatusNoContent)
}

type coverageResponse struct {
	Complete bool          `json:"complete"`
	Gaps     []pricing.Gap `json:"gaps"`
}

// GET /api/v1/admin/price-rules/coverage
func HandleCoverage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	if coverage == nil {
		logger.Error().Msg("Catalog coverage source not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), coverageTimeout)
	defer cancel()

	gaps, err := coverage.CatalogGaps(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if gaps == nil {
		gaps = []pricing.Gap{}
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, coverageResponse{Complete: len(gaps) == 0, Gaps: gaps}); err != nil {
		logger.Error().Err(err).Msg("Failed to write coverage response")
	}
}

type packageRequest struct {
	Name        string         `json:"name"`
	CourtID     string         `json:"courtId"`
	DaysOfWeek  []time.Weekday `json:"daysOfWeek"`
	StartTime   string         `json:"startTime"`
	EndTime     string         `json:"endTime"`
	TotalPrice  int64          `json:"totalPrice"`
	BadgeText   string         `json:"badgeText"`
	Description string         `json:"description"`
}

// GET /api/v1/admin/packages
func HandlePackagesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	rows, err := q.ListActivePackages(ctx)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("list packages: %w", err))
		return
	}
	packages, err := models.PackagesFromDB(rows)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, packages); err != nil {
		logger.Error().Err(err).Msg("Failed to write packages response")
	}
}

// POST /api/v1/admin/packages
//
// An empty daysOfWeek offers the package every day.
func HandlePackageCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	var req packageRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	pkg := pricing.Package{
		Name:        strings.TrimSpace(req.Name),
		CourtID:     strings.TrimSpace(req.CourtID),
		DaysOfWeek:  req.DaysOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		TotalPrice:  req.TotalPrice,
		BadgeText:   strings.TrimSpace(req.BadgeText),
		Description: strings.TrimSpace(req.Description),
	}
	if err := pricing.ValidatePackage(pkg); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	if err := ensureCourt(ctx, q, pkg.CourtID); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	start, err := timeofday.Normalize("start_time", pkg.StartTime)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	end, err := timeofday.Normalize("end_time", pkg.EndTime)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	var days sql.NullString
	if len(pkg.DaysOfWeek) > 0 {
		days = sql.NullString{String: models.EncodeDays(pkg.DaysOfWeek), Valid: true}
	}
	row, err := q.CreatePackage(ctx, dbgen.CreatePackageParams{
		Name:        pkg.Name,
		CourtID:     pkg.CourtID,
		DaysOfWeek:  days,
		StartTime:   start,
		EndTime:     end,
		TotalPrice:  pkg.TotalPrice,
		BadgeText:   sql.NullString{String: pkg.BadgeText, Valid: pkg.BadgeText != ""},
		Description: sql.NullString{String: pkg.Description, Valid: pkg.Description != ""},
	})
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("create package: %w", err))
		return
	}
	created, err := models.PackageFromDB(row)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("package_id", row.ID).Str("court_id", row.CourtID).Msg("Package created")
	if err := apiutil.WriteJSON(w, http.StatusCreated, created); err != nil {
		logger.Error().Err(err).Int64("package_id", row.ID).Msg("Failed to write package response")
	}
}

// DELETE /api/v1/admin/packages/{id}
//
// Packages are deactivated rather than removed so bookings keep their
// package reference.
func HandlePackageDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	q := loadQueries(w, r)
	if q == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), catalogQueryTimeout)
	defer cancel()

	deactivated, err := q.DeactivatePackage(ctx, id)
	if err != nil {
		apiutil.WriteError(w, r, fmt.Errorf("deactivate package %d: %w", id, err))
		return
	}
	if deactivated == 0 {
		http.Error(w, "Package not found", http.StatusNotFound)
		return
	}

	logger.Info().Int64("package_id", id).Msg("Package deactivated")
	w.WriteHeader(http.StatusNoContent)
}
