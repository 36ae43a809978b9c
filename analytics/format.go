package analytics

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencySymbol = "₹"
	DayLayout      = "2006-01-02"
	DisplayLayout  = "Jan 2, 2006"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders an amount with two decimals and thousands
// separators, e.g. ₹1,234.50.
func FormatCurrency(amount float64) string {
	s := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 && s != "0.00" {
		return "-" + CurrencySymbol + s
	}
	return CurrencySymbol + s
}

func FormatDate(t time.Time) string {
	return t.Format(DisplayLayout)
}

// FormatISODate accepts an RFC 3339 timestamp or a bare calendar day.
func FormatISODate(s string) (string, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return FormatDate(t), nil
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FormatDate(t), nil
}
