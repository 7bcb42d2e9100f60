// Package format renders prices, volumes and percentages the way the dashboard displays them.
//
// All rounding goes through shopspring/decimal so values round half away from zero
// instead of inheriting binary float artifacts (1.005 stays "1.01").
package format

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

type magnitude struct {
	threshold float64
	suffix    string
}

var magnitudes = []magnitude{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatNumber abbreviates large values: 1500000 -> "1.50M", 2345 -> "2.35K", 12.3 -> "12.30".
func FormatNumber(v float64) string {
	if !isFinite(v) {
		return "0.00"
	}

	abs := math.Abs(v)
	for _, m := range magnitudes {
		if abs >= m.threshold {
			return fixed(v/m.threshold, 2) + m.suffix
		}
	}

	return fixed(v, 2)
}

// FormatCurrency is FormatNumber with a dollar sign.
func FormatCurrency(v float64) string {
	s := FormatNumber(v)
	if strings.HasPrefix(s, "-") {
		return "-$" + s[1:]
	}
	return "$" + s
}

// FormatPrice picks the precision by magnitude. Sub-cent prices keep 8 decimals so
// meme-coin quotes such as 0.000001234 render as "$0.00000123".
func FormatPrice(p float64) string {
	if !isFinite(p) || p == 0 {
		return "$0.00"
	}

	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}

	switch {
	case p < 0.01:
		return sign + "$" + fixed(p, 8)
	case p < 1:
		return sign + "$" + fixed(p, 4)
	default:
		return sign + "$" + withThousands(fixed(p, 2))
	}
}

// FormatPercentage renders a signed percentage: 5.123 -> "+5.12%", -3 -> "-3.00%".
func FormatPercentage(p float64) string {
	if !isFinite(p) {
		return "0.00%"
	}

	s := fixed(p, 2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s + "%"
}

// FormatRelativeTime renders t relative to now ("3 hours ago"). Zero time renders empty.
func FormatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func fixed(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	if s == "-"+decimal.Zero.StringFixed(places) {
		return decimal.Zero.StringFixed(places)
	}
	return s
}

// withThousands inserts separators into the integer part of a fixed-point string.
func withThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")

	n, err := decimal.NewFromString(intPart)
	if err != nil || !n.IsInteger() || n.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64/2)) {
		return s
	}

	out := humanize.Comma(n.IntPart())
	if hasFrac {
		out += "." + frac
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
