package models

// DocumentInsight is one highlighted finding of a document analysis
type DocumentInsight struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DocumentProcessingInfo records how a document was processed
type DocumentProcessingInfo struct {
	PagesProcessed int    `json:"pages_processed"`
	AIModel        string `json:"ai_model"`
}

// DocumentAnalysis is the result of analysing a financial PDF
type DocumentAnalysis struct {
	Success          bool                   `json:"success"`
	Filename         string                 `json:"filename"`
	FileSizeMB       float64                `json:"file_size_mb"`
	Pages            int                    `json:"pages"`
	DocumentType     string                 `json:"document_type"`
	Company          string                 `json:"company"`
	TextLength       int                    `json:"text_length"`
	WordCount        int                    `json:"word_count"`
	KeySections      []string               `json:"key_sections"`
	FinancialData    map[string]string      `json:"financial_data"`
	Sentiment        string                 `json:"sentiment"`
	SentimentColor   string                 `json:"sentiment_color"`
	PositiveMentions int                    `json:"positive_mentions"`
	NegativeMentions int                    `json:"negative_mentions"`
	Insights         []DocumentInsight      `json:"insights"`
	Recommendations  []string               `json:"recommendations"`
	Summary          string                 `json:"summary"`
	AnalyzedAt       string                 `json:"analyzed_at"`
	ProcessingInfo   DocumentProcessingInfo `json:"processing_info"`
}

// DocumentExtraction is the structured payload requested from the AI extractor
type DocumentExtraction struct {
	DocumentType  string            `json:"document_type"`
	CompanyName   string            `json:"company_name"`
	FinancialData map[string]string `json:"financial_data"`
	Sentiment     string            `json:"sentiment"`
	Insights      []string          `json:"insights"`
	Summary       string            `json:"summary"`
}
