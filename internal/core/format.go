package core

import (
	"strconv"
	"strings"
)

// FormatCurrency renders cents as a US dollar string with thousands
// separators, e.g. -123456 -> "-$1,234.56".
func FormatCurrency(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// FormatDate renders the long display label used for grouping,
// e.g. "Jan 5, 2024".
func FormatDate(d Date) string {
	return d.Format("Jan 2, 2006")
}

// FormatDateShort renders a compact label relative to today: "Today",
// "Yesterday", or "Jan 5".
func FormatDateShort(d Date, today Date) string {
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDays(-1)):
		return "Yesterday"
	}
	return d.Format("Jan 2")
}

var categoryGlyphs = map[string]string{
	"Housing":       "🏠",
	"Food":          "🍔",
	"Transport":     "🚗",
	"Entertainment": "🎬",
	"Health":        "💊",
	"Shopping":      "🛍️",
	"Subscriptions": "📱",
	"Salary":        "💰",
	"Fun":           "🎬",
	"Other":         "✨",
}

// CategoryGlyph returns the display glyph for a category label. Unknown
// categories fall back to the "Other" glyph.
func CategoryGlyph(category string) string {
	if g, ok := categoryGlyphs[category]; ok {
		return g
	}
	return "✨"
}
