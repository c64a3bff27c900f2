package api_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"charterops/flightdeck/internal/api"
	"charterops/flightdeck/internal/db"
	"charterops/flightdeck/internal/models/dtos"
	"charterops/flightdeck/internal/routes"
)

func workbookBytes(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Citation - N123AB - March-2025"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatal(err)
	}
	rows := [][]interface{}{
		{"Date", "Time", "Origin", "Destination", "Pax", "Hours", "Revenue", "Type"},
		{"03/03/2025", "08:00", "SBSP", "SBRJ", 4, 1.2, "R$ 20.000,00", "Charter"},
		{"03/03/2025", "14:00", "SBRJ", "SBSP", 3, 1.2, "R$ 18.000,00", "Charter"},
		{"10/03/2025", "", "SBSP", "SBJD", 0, 0.4, "", "Translado"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	gormDB, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	deps, err := api.InitDependencies(gormDB, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("init dependencies: %v", err)
	}

	r := chi.NewRouter()
	routes.RegisterAPIRoutes(r, api.NewHandlers(deps, 32<<20))
	return r
}

func doRequest(t *testing.T, r *chi.Mux, req *http.Request) (*httptest.ResponseRecorder, dtos.APIResponse) {
	t.Helper()
	// Loopback is exempt from upload rate limiting
	req.RemoteAddr = "127.0.0.1:54321"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body dtos.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadWorkbookAndSummary(t *testing.T) {
	r := newTestRouter(t)

	rec, body := doRequest(t, r, uploadRequest(t, "march.xlsx", workbookBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body.Status != "ok" {
		t.Fatalf("upload status field = %q", body.Status)
	}

	rec, body = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d, body %s", rec.Code, rec.Body.String())
	}
	stats, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("summary data has unexpected shape: %T", body.Data)
	}
	if got := stats["flights"].(float64); got != 3 {
		t.Errorf("flights = %v, want 3", got)
	}
}

func TestUploadRejectsWrongFileType(t *testing.T) {
	r := newTestRouter(t)

	rec, body := doRequest(t, r, uploadRequest(t, "flights.csv", []byte("a,b,c")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body.Status != "error" {
		t.Errorf("status field = %q, want error", body.Status)
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/data/upload", nil)
	rec, _ := doRequest(t, r, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsCorruptWorkbook(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := doRequest(t, r, uploadRequest(t, "garbage.xlsx", []byte("not a zip archive")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestQueriesBeforeUploadReturn422(t *testing.T) {
	r := newTestRouter(t)

	paths := []string{
		"/api/v1/analytics/summary",
		"/api/v1/analytics/kpis",
		"/api/v1/analytics/breakdown/category",
		"/api/v1/analytics/routes/top",
		"/api/v1/analytics/trend/monthly",
		"/api/v1/analytics/trend/cumulative",
		"/api/v1/analytics/weekday-split",
		"/api/v1/analysis/idle",
	}
	for _, path := range paths {
		rec, _ := doRequest(t, r, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s status = %d, want 422", path, rec.Code)
		}
	}
}

func TestInvalidFilterReturns400(t *testing.T) {
	r := newTestRouter(t)

	rec, body := doRequest(t, r, uploadRequest(t, "march.xlsx", workbookBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec, body = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?year=notayear", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body.Message == "" {
		t.Error("expected a descriptive error message")
	}

	rec, _ = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary?flavor=spicy", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown key status = %d, want 400", rec.Code)
	}
}

func TestBreakdownGroupKeys(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := doRequest(t, r, uploadRequest(t, "march.xlsx", workbookBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec, body := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/breakdown/category", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("breakdown status = %d, body %s", rec.Code, rec.Body.String())
	}
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("breakdown data has unexpected shape: %T", body.Data)
	}
	if data["group_by"] != "category" {
		t.Errorf("group_by = %v", data["group_by"])
	}

	rec, _ = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/breakdown/starsign", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown group key status = %d, want 400", rec.Code)
	}
}

func TestTopRoutesLimitValidation(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := doRequest(t, r, uploadRequest(t, "march.xlsx", workbookBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec, _ = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/routes/top?limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d, want 400", rec.Code)
	}

	rec, body := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/routes/top?limit=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := body.Data.(map[string]interface{})
	routesList, ok := data["routes"].([]interface{})
	if !ok {
		t.Fatalf("routes data has unexpected shape: %T", data["routes"])
	}
	if len(routesList) != 1 {
		t.Errorf("len(routes) = %d, want 1", len(routesList))
	}
}

func TestDataAndCacheStatus(t *testing.T) {
	r := newTestRouter(t)

	rec, body := doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/data/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("data status = %d", rec.Code)
	}
	data := body.Data.(map[string]interface{})
	if loaded, _ := data["loaded"].(bool); loaded {
		t.Error("expected loaded=false before any upload")
	}

	rec, _ = doRequest(t, r, uploadRequest(t, "march.xlsx", workbookBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}

	rec, body = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/cache/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("cache status = %d", rec.Code)
	}
	data = body.Data.(map[string]interface{})
	if present, _ := data["present"].(bool); !present {
		t.Error("expected a snapshot after upload")
	}

	rec, _ = doRequest(t, r, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear cache status = %d", rec.Code)
	}

	rec, body = doRequest(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/cache/status", nil))
	data = body.Data.(map[string]interface{})
	if present, _ := data["present"].(bool); present {
		t.Error("expected no snapshot after clear")
	}
}

func TestHealthCheck(t *testing.T) {
	gormDB, err := db.InitSQLiteORM(":memory:")
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	handler := api.HealthCheckHandler(gormDB, time.Now().Add(-time.Minute))
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp api.HealthCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("health status = %q, want ok", resp.Status)
	}
	if resp.Services["database"].Status != "ok" {
		t.Errorf("database status = %q", resp.Services["database"].Status)
	}
}
