package server

import (
	"net/http"

	"github.com/bobmcallan/verifin/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/{$}", s.handleRoot)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Companies
	mux.HandleFunc("/api/resolve-company", s.handleResolveCompany)
	mux.HandleFunc("/api/company-overview", s.handleCompanyOverview)
	mux.HandleFunc("/api/company-compare", s.handleCompanyCompare)
	mux.HandleFunc("/api/company-financials/", s.handleCompanyFinancials)

	// Market
	mux.HandleFunc("/api/market-indices", s.handleMarketIndices)
	mux.HandleFunc("/api/chart/", s.handleChart)

	// Assistant and documents
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/document-analyze-upload", s.handleDocumentUpload)
	mux.HandleFunc("/api/document-analyze", s.handleDocumentAnalyze)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"service": "VeriFin API",
		"status":  "running",
		"version": common.GetVersion(),
		"health":  "/api/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"mode":      s.app.Config.Environment,
		"timestamp": float64(s.now().UnixMilli()) / 1000,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetBuildInfo())
}

// handleConfig reports the non-secret runtime configuration.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	companies := 0
	if s.app.Directory != nil {
		companies = s.app.Directory.Len()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     s.app.Config.Environment,
		"market_provider": s.app.Config.Market.Provider,
		"tier_timeout":    s.app.Config.Market.GetTierTimeout().String(),
		"history_years":   s.app.Config.Market.HistoryYears,
		"indices":         s.app.Config.Market.Indices,
		"companies":       companies,
		"ai_enabled":      s.app.AIEnabled(),
		"max_upload_mb":   s.app.Config.Documents.MaxUploadMB,
	})
}
