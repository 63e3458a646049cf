package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/verifin/internal/app"
	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/directory"
	"github.com/bobmcallan/verifin/internal/models"
)

// --- mock services ---

type mockResolver struct {
	result  models.ResolutionResult
	queries []string
}

func (m *mockResolver) Resolve(ctx context.Context, query string) models.ResolutionResult {
	m.queries = append(m.queries, query)
	return m.result
}

type mockOverview struct {
	resp *models.OverviewResponse
	err  error
}

func (m *mockOverview) Compose(ctx context.Context, query string) (*models.OverviewResponse, error) {
	return m.resp, m.err
}

type mockCompare struct {
	result *models.Comparison
	err    error
	args   [2]string
}

func (m *mockCompare) Compare(ctx context.Context, query1, query2 string) (*models.Comparison, error) {
	m.args = [2]string{query1, query2}
	return m.result, m.err
}

type mockChat struct {
	last models.ChatRequest
}

func (m *mockChat) Reply(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	m.last = req
	return models.ChatResponse{Success: true, Response: "echo: " + req.Message, Agent: "VeriFin AI"}
}

type mockDocument struct {
	analysis *models.DocumentAnalysis
	err      error
	filename string
	data     []byte
}

func (m *mockDocument) Analyze(ctx context.Context, filename string, data []byte) (*models.DocumentAnalysis, error) {
	m.filename = filename
	m.data = data
	return m.analysis, m.err
}

type mockIndices struct {
	quotes []models.IndexQuote
}

func (m *mockIndices) GetIndices(ctx context.Context) []models.IndexQuote {
	return m.quotes
}

type mockFinancials struct {
	resp   *models.KeyStatisticsResponse
	err    error
	ticker string
}

func (m *mockFinancials) GetKeyStatistics(ctx context.Context, ticker string) (*models.KeyStatisticsResponse, error) {
	m.ticker = ticker
	return m.resp, m.err
}

type mockChart struct {
	ok    bool
	err   error
	years int
}

func (m *mockChart) RenderPriceChart(ctx context.Context, ticker string, years int, w io.Writer) (bool, error) {
	m.years = years
	if m.ok {
		w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}
	return m.ok, m.err
}

type mocks struct {
	resolver   *mockResolver
	overview   *mockOverview
	compare    *mockCompare
	chat       *mockChat
	document   *mockDocument
	indices    *mockIndices
	financials *mockFinancials
	chart      *mockChart
}

func newTestServer(t *testing.T) (*Server, *mocks) {
	t.Helper()

	dir, err := directory.Load("")
	require.NoError(t, err)

	m := &mocks{
		resolver:   &mockResolver{},
		overview:   &mockOverview{},
		compare:    &mockCompare{},
		chat:       &mockChat{},
		document:   &mockDocument{},
		indices:    &mockIndices{},
		financials: &mockFinancials{},
		chart:      &mockChart{},
	}

	config := common.NewDefaultConfig()
	config.Documents.MaxUploadMB = 1

	a := &app.App{
		Config:            config,
		Logger:            common.NewSilentLogger(),
		Directory:         dir,
		ResolverService:   m.resolver,
		OverviewService:   m.overview,
		CompareService:    m.compare,
		ChatService:       m.chat,
		DocumentService:   m.document,
		IndicesService:    m.indices,
		FinancialsService: m.financials,
		ChartService:      m.chart,
		StartupTime:       time.Now(),
	}

	s := NewServer(a)
	s.now = func() time.Time { return time.Unix(1767225600, 500*int64(time.Millisecond)) }
	return s, m
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNewServer_Addr(t *testing.T) {
	s, _ := newTestServer(t)
	require.Equal(t, "0.0.0.0:8000", s.Addr())
}

func TestServer_UnknownPathIs404(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
