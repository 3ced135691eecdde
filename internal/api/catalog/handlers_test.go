package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/codr1/Courtside/internal/pricing"
	"github.com/codr1/Courtside/internal/reservations"
	"github.com/codr1/Courtside/internal/testutil"
)

func setupCatalog(t *testing.T) {
	t.Helper()

	database := testutil.NewTestDB(t)
	engine, err := reservations.NewEngine(database, reservations.Options{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	prevQueries, prevCoverage := queries, coverage
	queries, coverage = database.Queries, engine
	t.Cleanup(func() {
		queries, coverage = prevQueries, prevCoverage
	})
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return httptest.NewRequest(method, target, bytes.NewReader(payload))
}

func listRules(t *testing.T) []ruleResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	HandlePriceRulesList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/price-rules", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	var rules []ruleResponse
	if err := json.NewDecoder(rec.Body).Decode(&rules); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rules
}

func readCoverage(t *testing.T) coverageResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleCoverage(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/price-rules/coverage", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("coverage status = %d: %s", rec.Code, rec.Body.String())
	}
	var body coverageResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body
}

func TestPriceRuleLifecycle(t *testing.T) {
	setupCatalog(t)

	seeded := len(listRules(t))

	rec := httptest.NewRecorder()
	HandlePriceRuleCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/admin/price-rules", ruleRequest{
		Name:         "Holiday mornings",
		Tier:         "standard",
		CourtID:      "mint",
		DaysOfWeek:   []time.Weekday{time.Monday},
		StartTime:    "06:00",
		EndTime:      "09:00",
		PricePerHour: 50000,
		Priority:     30,
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created ruleResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 || !created.IsActive || created.StartTime != "06:00" || created.CourtID != "mint" {
		t.Fatalf("unexpected rule %+v", created)
	}
	if got := len(listRules(t)); got != seeded+1 {
		t.Fatalf("rules = %d, want %d", got, seeded+1)
	}

	id := strconv.FormatInt(created.ID, 10)
	inactive := false
	req := jsonRequest(t, http.MethodPut, "/api/v1/admin/price-rules/"+id, ruleRequest{
		Name:         "Holiday mornings",
		Tier:         "standard",
		CourtID:      "mint",
		DaysOfWeek:   []time.Weekday{time.Monday, time.Tuesday},
		StartTime:    "06:00",
		EndTime:      "10:00",
		PricePerHour: 55000,
		Priority:     30,
		IsActive:     &inactive,
	})
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	HandlePriceRuleUpdate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated ruleResponse
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.IsActive || updated.EndTime != "10:00" || len(updated.DaysOfWeek) != 2 {
		t.Fatalf("unexpected update %+v", updated)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/price-rules/"+id, nil)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	HandlePriceRuleDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	HandlePriceRuleDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestPriceRuleCreateValidation(t *testing.T) {
	setupCatalog(t)

	tests := []struct {
		name string
		req  ruleRequest
	}{
		{"unknown tier", ruleRequest{Name: "x", Tier: "gold", StartTime: "06:00", EndTime: "07:00", DaysOfWeek: []time.Weekday{1}, PricePerHour: 1}},
		{"unknown court", ruleRequest{Name: "x", Tier: "standard", CourtID: "gold", StartTime: "06:00", EndTime: "07:00", DaysOfWeek: []time.Weekday{1}, PricePerHour: 1}},
		{"end before start", ruleRequest{Name: "x", Tier: "standard", StartTime: "09:00", EndTime: "07:00", DaysOfWeek: []time.Weekday{1}, PricePerHour: 1}},
		{"missing name", ruleRequest{Tier: "standard", StartTime: "06:00", EndTime: "07:00", DaysOfWeek: []time.Weekday{1}, PricePerHour: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandlePriceRuleCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/admin/price-rules", tt.req))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestPriceRuleUpdateMissing(t *testing.T) {
	setupCatalog(t)

	req := jsonRequest(t, http.MethodPut, "/api/v1/admin/price-rules/9999", ruleRequest{
		Name: "x", Tier: "standard", StartTime: "06:00", EndTime: "07:00", DaysOfWeek: []time.Weekday{1}, PricePerHour: 1,
	})
	req.SetPathValue("id", "9999")
	rec := httptest.NewRecorder()
	HandlePriceRuleUpdate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCoverageReportsGaps(t *testing.T) {
	setupCatalog(t)

	if body := readCoverage(t); !body.Complete || len(body.Gaps) != 0 {
		t.Fatalf("expected seeded catalog to be complete, got %+v", body)
	}

	var night int64
	for _, rule := range listRules(t) {
		if rule.Name == "Night" {
			night = rule.ID
		}
	}
	if night == 0 {
		t.Fatal("seeded Night rule not found")
	}
	id := strconv.FormatInt(night, 10)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/price-rules/"+id, nil)
	req.SetPathValue("id", id)
	HandlePriceRuleDelete(httptest.NewRecorder(), req)

	body := readCoverage(t)
	if body.Complete || len(body.Gaps) == 0 {
		t.Fatalf("expected gaps after removing the night rule, got %+v", body)
	}
	if body.Gaps[0].Start != "00:00" {
		t.Fatalf("first gap = %+v, want a 00:00 start", body.Gaps[0])
	}
	for _, gap := range body.Gaps {
		if gap.Start >= "08:00" {
			t.Fatalf("unexpected gap outside the night window: %+v", gap)
		}
	}
}

func TestPackageLifecycle(t *testing.T) {
	setupCatalog(t)

	rec := httptest.NewRecorder()
	HandlePackageCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/admin/packages", packageRequest{
		Name:       "Lunch hour",
		CourtID:    "mint",
		StartTime:  "12:00",
		EndTime:    "13:00",
		TotalPrice: 60000,
		BadgeText:  "New",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created pricing.Package
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.DaysOfWeek != nil {
		t.Fatalf("expected every-day package, got %v", created.DaysOfWeek)
	}

	list := func() []pricing.Package {
		rec := httptest.NewRecorder()
		HandlePackagesList(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/packages", nil))
		var packages []pricing.Package
		if err := json.NewDecoder(rec.Body).Decode(&packages); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return packages
	}
	before := len(list())

	id := strconv.FormatInt(created.ID, 10)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/packages/"+id, nil)
	req.SetPathValue("id", id)
	rec = httptest.NewRecorder()
	HandlePackageDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if after := len(list()); after != before-1 {
		t.Fatalf("active packages = %d, want %d", after, before-1)
	}

	rec = httptest.NewRecorder()
	HandlePackageDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestPackageCreateValidation(t *testing.T) {
	setupCatalog(t)

	tests := []struct {
		name string
		req  packageRequest
	}{
		{"unknown court", packageRequest{Name: "x", CourtID: "gold", StartTime: "06:00", EndTime: "07:00", TotalPrice: 1}},
		{"empty window", packageRequest{Name: "x", CourtID: "pink", StartTime: "07:00", EndTime: "07:00", TotalPrice: 1}},
		{"negative price", packageRequest{Name: "x", CourtID: "pink", StartTime: "06:00", EndTime: "07:00", TotalPrice: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandlePackageCreate(rec, jsonRequest(t, http.MethodPost, "/api/v1/admin/packages", tt.req))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
