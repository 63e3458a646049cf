package common

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupedPrinter = message.NewPrinter(language.English)

// GroupInt formats n with thousands separators, e.g. 1,234,567
func GroupInt(n int64) string {
	return groupedPrinter.Sprintf("%d", n)
}

// GroupFloat formats v with thousands separators and two decimals, e.g. 22,415.80
func GroupFloat(v float64) string {
	return groupedPrinter.Sprintf("%.2f", v)
}
