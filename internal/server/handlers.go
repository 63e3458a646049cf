package server

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/verifin/internal/models"
	"github.com/bobmcallan/verifin/internal/services/document"
)

const maxChartYears = 20

// companyQuery is the body of the resolve and overview endpoints.
// An empty query is passed through and resolves to a not-found result.
type companyQuery struct {
	Query string `json:"query" validate:"max=256"`
}

type compareQuery struct {
	Company1 string `json:"company1" validate:"required,max=256"`
	Company2 string `json:"company2" validate:"required,max=256"`
}

type documentQuery struct {
	FileContent string `json:"file_content" validate:"required"`
	Filename    string `json:"filename" validate:"required,max=512"`
}

// --- Company handlers ---

func (s *Server) handleResolveCompany(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req companyQuery
	if !DecodeRequest(w, r, &req) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.ResolverService.Resolve(r.Context(), req.Query))
}

func (s *Server) handleCompanyOverview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req companyQuery
	if !DecodeRequest(w, r, &req) {
		return
	}

	resp, err := s.app.OverviewService.Compose(r.Context(), req.Query)
	if err != nil {
		s.logger.Error().Str("query", req.Query).Str("correlation_id", correlationID(r)).Err(err).Msg("Overview composition failed")
		WriteErrorWithCode(w, http.StatusInternalServerError, s.faultMessage(err), "service_fault")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompanyCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req compareQuery
	if !DecodeRequest(w, r, &req) {
		return
	}

	comparison, err := s.app.CompareService.Compare(r.Context(), req.Company1, req.Company2)
	if err != nil {
		s.logger.Error().Str("company1", req.Company1).Str("company2", req.Company2).Str("correlation_id", correlationID(r)).Err(err).Msg("Comparison failed")
		WriteErrorWithCode(w, http.StatusInternalServerError, s.faultMessage(err), "service_fault")
		return
	}

	WriteJSON(w, http.StatusOK, comparison)
}

// handleCompanyFinancials handles GET /api/company-financials/{ticker}.
func (s *Server) handleCompanyFinancials(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(PathParam(r, "/api/company-financials/", "")))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	stats, err := s.app.FinancialsService.GetKeyStatistics(r.Context(), ticker)
	if err != nil {
		s.logger.Warn().Str("ticker", ticker).Str("correlation_id", correlationID(r)).Err(err).Msg("Key statistics unavailable")
		WriteErrorWithCode(w, http.StatusBadGateway, err.Error(), "upstream_unavailable")
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// --- Market handlers ---

func (s *Server) handleMarketIndices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, s.app.IndicesService.GetIndices(r.Context()))
}

// handleChart handles GET /api/chart/{ticker}?years=N and returns a PNG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(PathParam(r, "/api/chart/", "")))
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "ticker is required in path")
		return
	}

	years := s.app.Config.Market.HistoryYears
	if raw := r.URL.Query().Get("years"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxChartYears {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("years must be between 1 and %d", maxChartYears))
			return
		}
		years = n
	}

	var buf bytes.Buffer
	ok, err := s.app.ChartService.RenderPriceChart(r.Context(), ticker, years, &buf)
	if err != nil {
		s.logger.Error().Str("ticker", ticker).Str("correlation_id", correlationID(r)).Err(err).Msg("Chart render failed")
		WriteError(w, http.StatusInternalServerError, "Chart render failed")
		return
	}
	if !ok {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Not enough price history for %s", ticker))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// --- Assistant handlers ---

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ChatRequest
	if !DecodeRequest(w, r, &req) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.ChatService.Reply(r.Context(), req))
}

// --- Document handlers ---

// handleDocumentUpload handles a multipart upload with the PDF in the "file" field.
func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	maxBytes := int64(s.app.Config.Documents.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d MB limit", s.app.Config.Documents.MaxUploadMB))
			return
		}
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	s.analyzeDocument(w, r, header.Filename, data)
}

// handleDocumentAnalyze accepts a base64 encoded PDF in a JSON body.
func (s *Server) handleDocumentAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// base64 inflates the payload by a third
	maxBytes := int64(s.app.Config.Documents.MaxUploadMB) << 20
	var req documentQuery
	if !decodeJSONLimit(w, r, &req, maxBytes*4/3+4096) || !ValidateRequest(w, &req) {
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file_content is not valid base64")
		return
	}

	s.analyzeDocument(w, r, req.Filename, data)
}

func (s *Server) analyzeDocument(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	analysis, err := s.app.DocumentService.Analyze(r.Context(), filename, data)
	if err != nil {
		if errors.Is(err, document.ErrNotPDF) {
			WriteError(w, http.StatusBadRequest, "Only PDF files supported")
			return
		}
		s.logger.Error().Str("filename", filename).Str("correlation_id", correlationID(r)).Err(err).Msg("Document analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed: "+s.faultMessage(err))
		return
	}

	WriteJSON(w, http.StatusOK, analysis)
}

// faultMessage hides internal error detail in production.
func (s *Server) faultMessage(err error) string {
	if s.app.Config.IsProduction() {
		return "Internal server error"
	}
	return err.Error()
}
