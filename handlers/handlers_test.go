// ABOUTME: Tests for the HTTP API handlers
// ABOUTME: Exercises plan, preview, scenario compare, history, and health

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/planwise/capacity-planner/cache"
	"github.com/planwise/capacity-planner/config"
	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                "8080",
		CacheTTL:            300,
		BottleneckThreshold: 0.9,
		HistoryLimit:        50,
	}
}

func testHandler() *Handler {
	return NewHandler(testConfig(), cache.New(time.Minute), nil)
}

func planBody(t *testing.T, req models.PlanRequest) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	return bytes.NewReader(raw)
}

func sampleRequest() models.PlanRequest {
	return models.PlanRequest{
		Processes: []models.Process{
			{ID: "P1", Name: "Deploy", Priority: models.PriorityCritical, EstimatedHours: 4, RequiredCapabilities: []string{"go"}},
			{ID: "P2", Name: "Review", Priority: models.PriorityLow, EstimatedHours: 2, RequiredCapabilities: []string{"go"}},
		},
		Resources: []models.Resource{
			{ID: "R1", Name: "Ana", CapacityHours: 5, CostPerHour: 10, Capabilities: []string{"go"}},
		},
	}
}

func TestHealth(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()

	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", resp["status"])
	}
	if resp["history"] != "not_configured" {
		t.Errorf("Expected history not_configured, got %v", resp["history"])
	}
}

func TestHandlePlan(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, sampleRequest()))

	h.HandlePlan(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Assignments) != 2 {
		t.Errorf("Expected 2 assignments, got %d", len(resp.Assignments))
	}
	if len(resp.Deficits) != 1 {
		t.Errorf("Expected 1 deficit, got %d", len(resp.Deficits))
	}
	if resp.Deficits[0].ProcessID != "P2" {
		t.Errorf("Expected deficit on P2, got %s", resp.Deficits[0].ProcessID)
	}
}

func TestHandlePlanInvalidJSON(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader("{not json"))

	h.HandlePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandlePlanValidationError(t *testing.T) {
	h := testHandler()
	bad := sampleRequest()
	bad.Processes[0].ID = ""

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, bad))

	h.HandlePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Invalid input data" {
		t.Errorf("Expected invalid input error, got %q", errResp.Error)
	}
	if errResp.Details == "" {
		t.Error("Expected error details to name the validation failure")
	}
}

func TestHandlePlanConfigError(t *testing.T) {
	h := testHandler()
	bad := sampleRequest()
	bad.Config = &models.PlanConfig{BottleneckThreshold: 2.0}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, bad))

	h.HandlePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Error != "Invalid configuration" {
		t.Errorf("Expected invalid configuration error, got %q", errResp.Error)
	}
}

func TestHandlePlanCachesResponse(t *testing.T) {
	h := testHandler()
	planReq := sampleRequest()

	rec := httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, planReq)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	digest, err := cache.RequestDigest(planReq)
	if err != nil {
		t.Fatalf("Failed to compute digest: %v", err)
	}
	if _, found := h.cache.Get("plan:" + digest); !found {
		t.Error("Expected plan response to be cached after first request")
	}

	// Second identical request must produce the same body.
	rec2 := httptest.NewRecorder()
	h.HandlePlan(rec2, httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, planReq)))
	if rec2.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on cached request, got %d", rec2.Code)
	}
	if rec.Body.String() != rec2.Body.String() {
		t.Error("Expected identical responses for identical requests")
	}
}

func TestHandlePlanUsesServiceThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.BottleneckThreshold = 0.5
	h := NewHandler(cfg, cache.New(time.Minute), nil)

	// R1 lands at 60% utilization with no deficits: above the service
	// threshold, below the stock 0.9 default.
	planReq := models.PlanRequest{
		Processes: []models.Process{
			{ID: "P1", Name: "Deploy", Priority: models.PriorityCritical, EstimatedHours: 3, RequiredCapabilities: []string{"go"}},
		},
		Resources: []models.Resource{
			{ID: "R1", Name: "Ana", CapacityHours: 5, CostPerHour: 10, Capabilities: []string{"go"}},
		},
	}

	rec := httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, planReq)))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Summary.Bottlenecks) != 1 || resp.Summary.Bottlenecks[0] != "R1" {
		t.Errorf("Expected R1 flagged as bottleneck at service threshold 0.5, got %v", resp.Summary.Bottlenecks)
	}

	// A per-request threshold still wins over the service default.
	planReq.Config = &models.PlanConfig{BottleneckThreshold: 0.9}
	rec2 := httptest.NewRecorder()
	h.HandlePlan(rec2, httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, planReq)))
	if rec2.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec2.Code, rec2.Body.String())
	}
	var resp2 models.PlanResponse
	if err := json.Unmarshal(rec2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp2.Summary.Bottlenecks) != 0 {
		t.Errorf("Expected no bottlenecks with per-request threshold 0.9, got %v", resp2.Summary.Bottlenecks)
	}
}

func TestHandlePlanBodyTooLarge(t *testing.T) {
	h := testHandler()
	big := bytes.Repeat([]byte("a"), maxRequestBodySize+1)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewReader(big))

	h.HandlePlan(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandlePlanPreviewOmitsRecommendations(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plan/preview", planBody(t, sampleRequest()))

	h.HandlePlanPreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var resp models.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Recommendations) != 0 {
		t.Errorf("Expected no recommendations in preview, got %d", len(resp.Recommendations))
	}
	if len(resp.Assignments) == 0 {
		t.Error("Expected preview to still include assignments")
	}
}

func TestCompareScenario(t *testing.T) {
	h := testHandler()

	baseline := sampleRequest()
	proposed := sampleRequest()
	proposed.Resources = append(proposed.Resources, models.Resource{
		ID: "R2", Name: "Luis", CapacityHours: 10, CostPerHour: 8, Capabilities: []string{"go"},
	})

	raw, err := json.Marshal(CompareRequest{Baseline: baseline, Proposed: proposed})
	if err != nil {
		t.Fatalf("Failed to marshal compare request: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/scenario/compare", bytes.NewReader(raw))

	h.CompareScenario(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp CompareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Delta.Deficits != -1 {
		t.Errorf("Expected deficit delta -1, got %d", resp.Delta.Deficits)
	}
	if resp.Delta.Efficiency <= 0 {
		t.Errorf("Expected efficiency to improve, got delta %g", resp.Delta.Efficiency)
	}
	if resp.Delta.AllocatedHours != 1 {
		t.Errorf("Expected allocated hours delta 1, got %g", resp.Delta.AllocatedHours)
	}
}

func TestCompareScenarioInvalidInput(t *testing.T) {
	h := testHandler()

	baseline := sampleRequest()
	proposed := sampleRequest()
	proposed.Processes[0].EstimatedHours = -1

	raw, _ := json.Marshal(CompareRequest{Baseline: baseline, Proposed: proposed})

	rec := httptest.NewRecorder()
	h.CompareScenario(rec, httptest.NewRequest(http.MethodPost, "/api/scenario/compare", bytes.NewReader(raw)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHistoryWithoutStore(t *testing.T) {
	h := testHandler()
	rec := httptest.NewRecorder()

	h.History(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var runs []store.Run
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected empty history, got %d runs", len(runs))
	}
}

func TestPlanRecordsHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	h := NewHandler(testConfig(), cache.New(time.Minute), st)

	rec := httptest.NewRecorder()
	h.HandlePlan(rec, httptest.NewRequest(http.MethodPost, "/api/plan", planBody(t, sampleRequest())))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	histRec := httptest.NewRecorder()
	h.History(histRec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

	var runs []store.Run
	if err := json.Unmarshal(histRec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("Failed to decode history: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs))
	}
	if runs[0].Processes != 2 || runs[0].Deficits != 1 {
		t.Errorf("Expected run with 2 processes and 1 deficit, got %+v", runs[0])
	}
}

func TestRoutes(t *testing.T) {
	h := testHandler()
	routes := h.Routes()

	want := map[string]string{
		"/api/health":           http.MethodGet,
		"/api/plan":             http.MethodPost,
		"/api/plan/preview":     http.MethodPost,
		"/api/scenario/compare": http.MethodPost,
		"/api/history":          http.MethodGet,
	}
	if len(routes) != len(want) {
		t.Fatalf("Expected %d routes, got %d", len(want), len(routes))
	}
	for _, route := range routes {
		method, ok := want[route.Path]
		if !ok {
			t.Errorf("Unexpected route %s", route.Path)
			continue
		}
		if route.Method != method {
			t.Errorf("Expected %s %s, got %s", method, route.Path, route.Method)
		}
		if route.Handler == nil {
			t.Errorf("Route %s has nil handler", route.Path)
		}
	}
}
