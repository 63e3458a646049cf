package overview

import (
	"fmt"
	"math"

	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/models"
)

// formatMoney renders an amount with the T/B/M/K ladder and a currency prefix
func formatMoney(currency string, v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%s%.2fT", currency, v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%s%.2fB", currency, v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%s%.2fM", currency, v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%s%.2fK", currency, v/1e3)
	default:
		return fmt.Sprintf("%s%.2f", currency, v)
	}
}

// formatVolume renders a share count with the B/M/K ladder
func formatVolume(v int64) string {
	f := float64(v)
	switch {
	case f >= 1e9:
		return fmt.Sprintf("%.2fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("%.2fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("%.2fK", f/1e3)
	default:
		return fmt.Sprintf("%d", v)
	}
}

func formatPrice(currency string, v float64) string {
	return fmt.Sprintf("%s%.2f", currency, v)
}

func signed(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}

func formatChange(v float64) string {
	return fmt.Sprintf("%s%.2f", signed(v), v)
}

func formatChangePct(v float64) string {
	return fmt.Sprintf("%s%.2f%%", signed(v), v)
}

// formatDividend renders a fractional yield as a percentage, or fallback when zero
func formatDividend(yield float64, fallback string) string {
	if yield == 0 {
		return fallback
	}
	return fmt.Sprintf("%.2f%%", yield*100)
}

func formatEmployees(n int64) string {
	if n <= 0 {
		return "N/A"
	}
	return common.GroupInt(n)
}

// peRatio rounds to two decimals; zero is unknown
func peRatio(pe float64) models.NumberOrNA {
	if pe == 0 {
		return models.NumberOrNA{}
	}
	return models.NumberOrNA{Value: math.Round(pe*100) / 100, Valid: true}
}
