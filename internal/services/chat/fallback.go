package chat

import (
	"sort"
	"strings"
)

const (
	safeInvestReply = "Safe long-term investments typically include:\n1. Blue-chip stocks - TCS, Reliance, Infosys\n2. Index funds - Diversified market exposure\n3. Government bonds - Low risk, stable returns\n4. Large-cap stocks - Proven track records"

	investReply = "When considering investments, focus on:\n1. Diversification - Don't put all eggs in one basket\n2. Risk Assessment - Understand your risk tolerance\n3. Time Horizon - Long-term vs short-term goals\n4. Research - Use tools like VeriFin to analyze companies\n5. Professional Advice - Consult certified financial advisors"

	peRatioReply = "P/E Ratio (Price-to-Earnings) explained:\n\nWhat it means:\n- Shows how much investors pay per rupee of earnings\n- P/E = Stock Price ÷ Earnings Per Share\n\nInterpretation:\n- Low P/E (<15): Potentially undervalued\n- Medium P/E (15-25): Fair valuation\n- High P/E (>25): Growth expectations or overvalued\n\nImportant: Compare P/E within the same sector!"

	compareReply = "To compare companies:\n1. Use the Compare tab in VeriFin\n2. Look at P/E ratio (valuation)\n3. Compare revenue & profit growth\n4. Check debt-to-equity ratios\n5. Analyze sector trends\n6. Review historical price performance"

	greetingReply = "Hello! I'm " + AgentName + ", your financial intelligence assistant.\n\nI can help you with:\n- Stock analysis and comparisons\n- Investment strategies\n- Market insights\n- Financial planning\n\nWhat would you like to know?"

	defaultReply = "I can help you with financial analysis! Try asking about:\n- Investment strategies\n- Company comparisons\n- P/E ratios and metrics\n- Long-term investing\n- Sector analysis\n\nOr use the Search tab to analyze specific companies!"
)

// fallbackReply picks a canned answer. The more specific safe-investing
// rule is checked before the general investing one.
func fallbackReply(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "safe") && strings.Contains(m, "invest"):
		return safeInvestReply
	case strings.Contains(m, "invest"):
		return investReply
	case strings.Contains(m, "pe ratio") || strings.Contains(m, "p/e"):
		return peRatioReply
	case strings.Contains(m, "compare"):
		return compareReply
	case strings.Contains(m, "hello") || hasWord(m, "hi"):
		return greetingReply
	default:
		return defaultReply
	}
}

// hasWord reports whether word appears as a whole word in s
func hasWord(s, word string) bool {
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if w == word {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
