package report

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Calendar adapts the elapsed-month filter to a reporting calendar. A season
// is labelled with a Gregorian year; SeasonYear converts that label into the
// calendar's own year using a mid-season anchor date, so a solar-hijri year
// straddling two Gregorian years resolves unambiguously.
type Calendar interface {
	// SeasonYear maps a season label to the calendar's year number.
	SeasonYear(season int) int
	// YearMonth returns the calendar year and zero-based month of t.
	YearMonth(t time.Time) (year, month int)
	// MonthIndex maps a localized month name to its zero-based index.
	MonthIndex(name string) (int, bool)
}

// Anchor is the mid-season date used to resolve a plain year label to a
// calendar year. June 1 sits safely inside both the Gregorian year and the
// Persian year that began the preceding March.
type Anchor struct {
	Month time.Month
	Day   int
}

// DefaultAnchor is the anchor used when none is configured.
var DefaultAnchor = Anchor{Month: time.June, Day: 1}

func (a Anchor) orDefault() Anchor {
	if a.Month == 0 || a.Day == 0 {
		return DefaultAnchor
	}
	return a
}

// PersianCalendar resolves seasons and month names against the Iranian
// solar-hijri calendar.
type PersianCalendar struct {
	Anchor Anchor
}

var persianMonths = []string{
	"فروردین", "اردیبهشت", "خرداد", "تیر", "مرداد", "شهریور",
	"مهر", "آبان", "آذر", "دی", "بهمن", "اسفند",
}

// SeasonYear converts a Gregorian season label to its Persian year.
func (c PersianCalendar) SeasonYear(season int) int {
	a := c.Anchor.orDefault()
	jy, _, _ := gregorianToPersian(season, int(a.Month), a.Day)
	return jy
}

// YearMonth returns the Persian year and zero-based month of t.
func (c PersianCalendar) YearMonth(t time.Time) (int, int) {
	jy, jm, _ := gregorianToPersian(t.Year(), int(t.Month()), t.Day())
	return jy, jm - 1
}

// MonthIndex maps a Persian month name to its zero-based index.
func (c PersianCalendar) MonthIndex(name string) (int, bool) {
	trimmed := strings.TrimSpace(name)
	for i, m := range persianMonths {
		if m == trimmed {
			return i, true
		}
	}
	return 0, false
}

// GregorianCalendar resolves seasons and English month names.
type GregorianCalendar struct{}

// SeasonYear is the identity for Gregorian labels.
func (GregorianCalendar) SeasonYear(season int) int { return season }

// YearMonth returns the Gregorian year and zero-based month of t.
func (GregorianCalendar) YearMonth(t time.Time) (int, int) {
	return t.Year(), int(t.Month()) - 1
}

// MonthIndex accepts English month names and their three-letter
// abbreviations, case-insensitively.
func (GregorianCalendar) MonthIndex(name string) (int, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for i := time.January; i <= time.December; i++ {
		full := strings.ToLower(i.String())
		if trimmed == full || trimmed == full[:3] {
			return int(i) - 1, true
		}
	}
	return 0, false
}

var localeMatcher = language.NewMatcher([]language.Tag{
	language.Persian, // fa: dashboard default
	language.English, // en
})

// CalendarForLocale selects the calendar adapter for a BCP 47 locale tag.
// Unknown locales fall back to the Persian calendar, matching the
// dashboard's default language.
func CalendarForLocale(locale string, anchor Anchor) Calendar {
	tag, err := language.Parse(locale)
	if err != nil {
		return PersianCalendar{Anchor: anchor}
	}
	_, index, _ := localeMatcher.Match(tag)
	if index == 1 {
		return GregorianCalendar{}
	}
	return PersianCalendar{Anchor: anchor}
}

// FilterElapsedPeriods drops future months from a current-season series.
// When the season resolves to the calendar's current year, only records
// whose period name maps to a month at or before the current month survive;
// unmappable names are dropped. Past seasons pass through untouched.
func FilterElapsedPeriods(records []NormalizedPeriodRecord, season int, cal Calendar, now time.Time) []NormalizedPeriodRecord {
	curYear, curMonth := cal.YearMonth(now)
	if cal.SeasonYear(season) != curYear {
		return records
	}
	out := make([]NormalizedPeriodRecord, 0, len(records))
	for _, r := range records {
		idx, ok := cal.MonthIndex(r.Period)
		if !ok || idx > curMonth {
			continue
		}
		out = append(out, r)
	}
	return out
}

// gregorianToPersian converts a Gregorian civil date to the Iranian
// solar-hijri calendar using the arithmetic 33-year cycle.
func gregorianToPersian(gy, gm, gd int) (jy, jm, jd int) {
	gdm := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gdm[gm-1]
	jy = -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return jy, jm, jd
}
