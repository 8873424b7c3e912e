package receipt

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	isoDate     = "2006-01-02"
	printedDate = "01/02/2006"
)

// FormatMoney renders an amount as "$" plus two decimals, rounding half-up.
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPrice applies the variant's price display rule to a single line.
func (v Variant) FormatPrice(amount decimal.Decimal) string {
	if amount.IsZero() && v.ZeroPricePlaceholder != "" {
		return v.ZeroPricePlaceholder
	}
	return FormatMoney(amount)
}

// DisplayName upper-cases an item name for printing. The stored name keeps
// its original casing.
func DisplayName(name string) string {
	// Casers carry state, so one is built per call.
	return cases.Upper(language.AmericanEnglish).String(strings.TrimSpace(name))
}

// FormatDate converts an ISO date to MM/DD/YYYY. Unparseable input renders
// as the empty string.
func FormatDate(iso string) string {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return ""
	}
	return t.Format(printedDate)
}

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatClock renders a time of day in the given clock format.
func FormatClock(text string, clock ClockFormat) string {
	t, ok := ParseClock(text)
	if !ok {
		return ""
	}
	if clock == Clock24Hour {
		return t.Format("15:04:05")
	}
	return t.Format("3:04 PM")
}

// FormatTimestamp renders a date and time as "MM/DD/YYYY HH:MM:SS". A
// missing time prints the date alone; an invalid date renders empty.
func FormatTimestamp(isoDate, clock string) string {
	date := FormatDate(isoDate)
	if date == "" {
		return ""
	}
	if t := FormatClock(clock, Clock24Hour); t != "" {
		return date + " " + t
	}
	return date
}

// FormatTransactionID groups a transaction digit string in fours behind a
// "TC#" label.
func FormatTransactionID(digits string) string {
	digits = strings.TrimSpace(digits)
	if digits == "" {
		return ""
	}
	groups := make([]string, 0, len(digits)/4+1)
	for len(digits) > 4 {
		groups = append(groups, digits[:4])
		digits = digits[4:]
	}
	groups = append(groups, digits)
	return "TC# " + strings.Join(groups, " ")
}

// ISODate formats t as the stored date form.
func ISODate(t time.Time) string {
	return t.Format(isoDate)
}

// ISOClock formats t as the stored time form.
func ISOClock(t time.Time) string {
	return t.Format("15:04")
}
