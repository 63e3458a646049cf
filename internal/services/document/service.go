// Package document analyses uploaded financial PDFs
package document

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

// ErrNotPDF is returned for uploads without a .pdf extension
var ErrNotPDF = errors.New("only PDF files supported")

// DefaultMaxTextChars bounds the text sent to the AI extractor
const DefaultMaxTextChars = 100000

const (
	defaultDocumentType = "General Financial Document"
	companyNotDetected  = "Not detected"
	noSummary           = "No summary generated."

	sentimentPositive = "Positive"
	sentimentNegative = "Negative"
	sentimentNeutral  = "Neutral"
)

const extractionPrompt = `Analyze this financial document text and extract the following structured data.

DOCUMENT TEXT (first %d chars):
%s

INSTRUCTIONS:
1. Identify the Document Type (Annual Report, Quarterly, etc.)
2. Identify the Company Name.
3. Extract Key Financial Metrics (Revenue, Net Profit, Assets, EPS) as simple strings (e.g. "5000 Crore").
4. Analyze Sentiment (Positive/Neutral/Negative) based on the tone.
5. Generate 3-4 Key Strategic Insights/Highlights.
6. Generate a brief Summary.

RETURN JSON FORMAT ONLY:
{
  "document_type": "string",
  "company_name": "string",
  "financial_data": {"revenue": "string", "net_profit": "string", "total_assets": "string", "eps": "string"},
  "sentiment": "Positive" | "Neutral" | "Negative",
  "insights": ["insight 1", "insight 2", "insight 3"],
  "summary": "string"
}`

// textExtractor returns the page count and the plain text of a PDF
type textExtractor func(data []byte) (pages int, text string, err error)

// Service implements DocumentService
type Service struct {
	ai           interfaces.JSONGenerator
	maxTextChars int
	extract      textExtractor
	logger       *common.Logger
	now          func() time.Time
}

// NewService creates a new document analyzer. ai may be nil.
func NewService(ai interfaces.JSONGenerator, maxTextChars int, logger *common.Logger) *Service {
	if maxTextChars <= 0 {
		maxTextChars = DefaultMaxTextChars
	}
	return &Service{
		ai:           ai,
		maxTextChars: maxTextChars,
		extract:      extractPDFText,
		logger:       logger,
		now:          time.Now,
	}
}

// Analyze extracts text from a PDF and builds the analysis, using the AI
// extractor when available and pattern fallbacks for anything it misses.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte) (*models.DocumentAnalysis, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, ErrNotPDF
	}

	sizeMB := float64(len(data)) / (1024 * 1024)
	pages, text, err := s.extract(data)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	textLength := utf8.RuneCountInString(text)
	s.logger.Info().
		Str("filename", filename).
		Float64("size_mb", sizeMB).
		Int("pages", pages).
		Int("chars", textLength).
		Msg("Extracted document text")

	extraction, aiUsed := s.aiExtract(ctx, text)
	lower := strings.ToLower(text)
	positive, negative := countSentiment(lower)

	docType := extraction.DocumentType
	if docType == "" || docType == defaultDocumentType {
		docType = detectDocumentType(lower)
	}

	company := strings.TrimSpace(extraction.CompanyName)
	if company == "" || company == companyNotDetected {
		company = detectCompanyName(text)
	}

	financial := mergeFinancialData(extraction.FinancialData, lower)

	sentiment := extraction.Sentiment
	if !validSentiment(sentiment) {
		sentiment = sentimentFromCounts(positive, negative)
	}

	summary := extraction.Summary
	if summary == "" {
		summary = noSummary
	}

	aiModel := "Pattern Fallback"
	if s.ai != nil {
		aiModel = "Gemini Paid"
	}

	return &models.DocumentAnalysis{
		Success:          true,
		Filename:         filename,
		FileSizeMB:       math.Round(sizeMB*100) / 100,
		Pages:            pages,
		DocumentType:     docType,
		Company:          company,
		TextLength:       textLength,
		WordCount:        len(strings.Fields(text)),
		KeySections:      []string{},
		FinancialData:    financial,
		Sentiment:        sentiment,
		SentimentColor:   sentimentColor(sentiment),
		PositiveMentions: positive,
		NegativeMentions: negative,
		Insights:         buildInsights(pages, textLength, docType, company, extraction.Insights, aiUsed),
		Recommendations:  buildRecommendations(sentiment),
		Summary:          summary,
		AnalyzedAt:       s.now().Format("2006-01-02T15:04:05.000000"),
		ProcessingInfo: models.DocumentProcessingInfo{
			PagesProcessed: pages,
			AIModel:        aiModel,
		},
	}, nil
}

// aiExtract asks the AI for the structured extraction; failures yield an empty one
func (s *Service) aiExtract(ctx context.Context, text string) (models.DocumentExtraction, bool) {
	var out models.DocumentExtraction
	if s.ai == nil {
		return out, false
	}

	truncated := truncateRunes(text, s.maxTextChars)
	prompt := fmt.Sprintf(extractionPrompt, s.maxTextChars, truncated)
	if err := s.ai.GenerateJSON(ctx, prompt, &out); err != nil {
		s.logger.Warn().Err(err).Msg("AI document extraction failed, using pattern fallback")
		return models.DocumentExtraction{}, false
	}
	return out, true
}

func buildInsights(pages, textLength int, docType, company string, aiInsights []string, aiUsed bool) []models.DocumentInsight {
	engine := "pattern analysis"
	if aiUsed {
		engine = "Gemini AI"
	}

	insights := []models.DocumentInsight{
		{Icon: "📄", Title: "Analysis Scope", Description: fmt.Sprintf("Analyzed %d pages (%dk chars) using %s", pages, textLength/1000, engine)},
		{Icon: "📑", Title: "Document Type", Description: docType},
	}
	if company != companyNotDetected {
		insights = append(insights, models.DocumentInsight{Icon: "🏢", Title: "Company", Description: company})
	}
	for i, insight := range aiInsights {
		if i == 3 {
			break
		}
		insights = append(insights, models.DocumentInsight{
			Icon:        "💡",
			Title:       fmt.Sprintf("Key Insight #%d", i+1),
			Description: insight,
		})
	}
	return insights
}

func buildRecommendations(sentiment string) []string {
	recs := []string{
		"• Use VeriFin's Compare feature to benchmark against competitors",
		"• Verify AI-extracted numbers with the actual document page",
	}
	if sentiment == sentimentPositive {
		recs = append([]string{"✓ AI detected positive tone - Look for growth drivers in the report"}, recs...)
	}
	return recs
}

func sentimentColor(sentiment string) string {
	switch sentiment {
	case sentimentPositive:
		return "green"
	case sentimentNegative:
		return "red"
	default:
		return "blue"
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var _ interfaces.DocumentService = (*Service)(nil)
