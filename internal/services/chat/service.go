// Package chat provides the financial assistant with an AI-first, pattern-fallback reply chain
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/models"
)

const (
	AgentName = "VeriFin AI"

	Warning = "⚠️ I'm a financial intelligence agent. My responses are for informational purposes only and not financial advice. Always consult a certified financial advisor before making investment decisions."

	poweredByAI       = "Google Gemini AI"
	poweredByFallback = "Pattern matching (Gemini unavailable)"
)

const promptTemplate = `You are VeriFin AI, an expert financial intelligence assistant specializing in:
- Stock market analysis and Indian stock markets (NSE/BSE)
- Investment strategies and portfolio management
- Financial metrics (P/E ratio, market cap, dividends, etc.)
- Company comparisons and sector analysis
- Risk assessment and long-term investing

Key guidelines:
1. Provide accurate, data-driven financial insights
2. Focus on Indian market context when relevant (INR, NSE, BSE)
3. Be concise but informative
4. Always mention this is for educational purposes only
5. Recommend professional financial advisors for investment decisions
6. Use examples of real companies when helpful (TCS, Reliance, Infosys, etc.)
%s
User question: %s

Provide a helpful, accurate response. Keep it under 200 words unless the question requires detail.`

// Service implements ChatService
type Service struct {
	ai     interfaces.TextGenerator
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new chat service. ai may be nil.
func NewService(ai interfaces.TextGenerator, logger *common.Logger) *Service {
	return &Service{ai: ai, logger: logger, now: time.Now}
}

// Reply answers a message, preferring the AI and falling back to canned answers
func (s *Service) Reply(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	message := strings.TrimSpace(req.Message)
	resp := models.ChatResponse{
		Success:      true,
		Agent:        AgentName,
		Warning:      Warning,
		Timestamp:    float64(s.now().UnixNano()) / 1e9,
		ContextAware: len(req.Context) > 0,
	}

	if text, ok := s.generate(ctx, message, req.Context); ok {
		resp.Response = text + "\n\n" + Warning
		resp.PoweredBy = poweredByAI
		return resp
	}

	resp.Response = fallbackReply(message) + "\n\n" + Warning
	resp.PoweredBy = poweredByFallback
	return resp
}

func (s *Service) generate(ctx context.Context, message string, pageContext map[string]any) (string, bool) {
	if s.ai == nil {
		return "", false
	}
	text, err := s.ai.GenerateContent(ctx, buildPrompt(message, pageContext))
	if err != nil {
		s.logger.Warn().Err(err).Msg("AI chat failed, using pattern fallback")
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn().Msg("AI chat returned no text, using pattern fallback")
		return "", false
	}
	return text, true
}

func buildPrompt(message string, pageContext map[string]any) string {
	extra := ""
	if len(pageContext) > 0 {
		var sb strings.Builder
		sb.WriteString("\nThe user is currently viewing:\n")
		for _, key := range sortedKeys(pageContext) {
			fmt.Fprintf(&sb, "- %s: %v\n", key, pageContext[key])
		}
		extra = sb.String()
	}
	return fmt.Sprintf(promptTemplate, extra, message)
}

var _ interfaces.ChatService = (*Service)(nil)
