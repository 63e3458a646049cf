package document

import (
	"regexp"
	"strings"
)

var (
	revenuePattern = regexp.MustCompile(`revenue[:\s]+(?:rs\.?|₹)?\s*([\d,]+\.?\d*)`)
	profitPattern  = regexp.MustCompile(`(?:net profit|pat)[:\s]+(?:rs\.?|₹)?\s*([\d,]+\.?\d*)`)

	positiveWords = []string{"growth", "profit", "strong"}
	negativeWords = []string{"loss", "decline", "risk"}
	companyWords  = []string{"limited", "ltd", "inc", "corporation"}
)

// companyScanLines is how many leading lines are searched for a company name
const companyScanLines = 50

func detectDocumentType(lower string) string {
	switch {
	case strings.Contains(lower, "annual report") || strings.Contains(lower, "financial year"):
		return "Annual Report"
	case strings.Contains(lower, "quarterly"):
		return "Quarterly Report"
	case strings.Contains(lower, "balance sheet"):
		return "Balance Sheet"
	default:
		return defaultDocumentType
	}
}

// detectCompanyName returns the first early line that looks like a company name
func detectCompanyName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > companyScanLines {
		lines = lines[:companyScanLines]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 5 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, w := range companyWords {
			if strings.Contains(lower, w) {
				return trimmed
			}
		}
	}
	return companyNotDetected
}

// mergeFinancialData keeps the AI figures and fills revenue and net profit by pattern
func mergeFinancialData(ai map[string]string, lower string) map[string]string {
	out := make(map[string]string, len(ai)+2)
	for k, v := range ai {
		out[k] = v
	}
	if missing(out["revenue"]) {
		if m := revenuePattern.FindStringSubmatch(lower); m != nil {
			out["revenue"] = m[1]
		}
	}
	if missing(out["net_profit"]) {
		if m := profitPattern.FindStringSubmatch(lower); m != nil {
			out["net_profit"] = m[1]
		}
	}
	return out
}

// missing treats empty values and echoed schema placeholders as absent
func missing(v string) bool {
	return v == "" || v == "string"
}

func countSentiment(lower string) (positive, negative int) {
	for _, w := range positiveWords {
		positive += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		negative += strings.Count(lower, w)
	}
	return positive, negative
}

func sentimentFromCounts(positive, negative int) string {
	switch {
	case positive > negative:
		return sentimentPositive
	case negative > positive:
		return sentimentNegative
	default:
		return sentimentNeutral
	}
}

func validSentiment(s string) bool {
	return s == sentimentPositive || s == sentimentNegative || s == sentimentNeutral
}
