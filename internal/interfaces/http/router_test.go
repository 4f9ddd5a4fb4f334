package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcontract "github.com/turtacn/ContractPilot/internal/application/contract"
	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/handlers"
	"github.com/turtacn/ContractPilot/internal/interfaces/http/middleware"
)

// stubService answers every call with fixed data keyed on the contract id.
type stubService struct{}

func (stubService) AssessRisk(*domainContract.Lead) domainContract.RiskAssessment {
	return domainContract.RiskAssessment{Score: 10, Level: domainContract.RiskLevelLow}
}

func (stubService) GeneratePreview(context.Context, *appcontract.PreviewRequest) (*appcontract.PreviewResult, error) {
	return &appcontract.PreviewResult{HTML: "<html></html>"}, nil
}

func (stubService) Generate(_ context.Context, req *appcontract.GenerateRequest) *appcontract.GenerationResult {
	return &appcontract.GenerationResult{Success: true, ContractID: "PMC-" + req.LeadID}
}

func (stubService) GetContract(_ context.Context, id string) (*appcontract.ContractDetails, error) {
	if id != "PMC-1" {
		return nil, domainContract.ErrContractNotFound(id)
	}
	return &appcontract.ContractDetails{Contract: &domainContract.Contract{ID: id, DocumentURL: "https://cdn.test/PMC-1.pdf"}}, nil
}

func (stubService) Approve(_ context.Context, id string) (*domainContract.Contract, error) {
	return &domainContract.Contract{ID: id, Status: domainContract.StatusApproved}, nil
}

type countingRecorder struct{ paths []string }

func (c *countingRecorder) RecordHTTPRequest(_, path string, _ int, _ time.Duration) {
	c.paths = append(c.paths, path)
}

func newTestRouter(rec middleware.RequestRecorder) http.Handler {
	svc := stubService{}
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://portal.example.com"}
	cfg := RouterConfig{
		ContractHandler: handlers.NewContractHandler(svc, nil),
		RiskHandler:     handlers.NewRiskHandler(svc),
		HealthHandler:   handlers.NewHealthHandler("test"),
		LoggingConfig:   middleware.DefaultLoggingConfig(),
		CORS:            &cors,
		MaxBodySize:     1 << 10,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	}
	if rec != nil {
		cfg.Metrics = rec
	}
	return NewRouter(cfg)
}

func TestNewRouter_Routes(t *testing.T) {
	router := newTestRouter(nil)

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/v1/contracts", `{"lead_id":"7"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/contracts/preview", `{"lead_id":"7"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/contracts/PMC-1", "", http.StatusOK},
		{http.MethodGet, "/api/v1/contracts/PMC-2", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/contracts/PMC-1/approve", "", http.StatusOK},
		{http.MethodGet, "/api/v1/contracts/PMC-1/document", "", http.StatusFound},
		{http.MethodPost, "/api/v1/risk/assess", `{"location":"Zamalek"}`, http.StatusOK},
		{http.MethodDelete, "/api/v1/contracts/PMC-1", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestNewRouter_GenerateReturnsResult(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contracts", strings.NewReader(`{"lead_id":"9"}`)))

	var res appcontract.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "PMC-9", res.ContractID)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestNewRouter_BodyLimit(t *testing.T) {
	body := `{"lead_id":"` + strings.Repeat("x", 4<<10) + `"}`
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contracts", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contracts", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://portal.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_MetricsUseRoutePatterns(t *testing.T) {
	rec := &countingRecorder{}
	router := newTestRouter(rec)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-1", nil))

	require.Len(t, rec.paths, 1)
	assert.Equal(t, "/api/v1/contracts/{contractID}", rec.paths[0])
}

func TestNewRouter_RateLimitCoversRenderingRoutesOnly(t *testing.T) {
	svc := stubService{}
	router := NewRouter(RouterConfig{
		ContractHandler: handlers.NewContractHandler(svc, nil),
		RateLimit:       middleware.RateLimitConfig{RequestsPerSecond: 0.01, BurstSize: 1},
	})
	do := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "192.0.2.10:4000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/api/v1/contracts", `{"lead_id":"1"}`))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost, "/api/v1/contracts", `{"lead_id":"1"}`))
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/contracts/PMC-1", ""))
}

func TestNewRouter_NilHandlers(t *testing.T) {
	router := NewRouter(RouterConfig{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contracts/PMC-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ServeAndStop(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ServerConfig{ShutdownTimeout: time.Second}, newTestRouter(nil), nil)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-done)
}

//Personal.AI order the ending
