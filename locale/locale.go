// Package locale formats dates and times for the captions on screen.
package locale

import (
	"fmt"
	"strings"
	"time"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// DatePattern is the numeric layout of a short date.
type DatePattern int

const (
	YmdDash DatePattern = iota
	DmyDot
	MdySlash
)

// TimePattern selects a 12 or 24 hour clock.
type TimePattern int

const (
	HmsColon12 TimePattern = iota
	HmsColon24
)

// Locale is a table of names plus the date and time patterns of one
// language.
type Locale struct {
	Tag  language.Tag
	Date DatePattern
	Time TimePattern
	// indexed by time.Weekday, short then long
	weekdays [7][2]string
	// indexed by time.Month - 1
	months [12][2]string
}

var US = &Locale{
	Tag:  language.AmericanEnglish,
	Date: MdySlash,
	Time: HmsColon12,
	weekdays: [7][2]string{
		{"Sun", "Sunday"}, {"Mon", "Monday"}, {"Tue", "Tuesday"}, {"Wed", "Wednesday"},
		{"Thu", "Thursday"}, {"Fri", "Friday"}, {"Sat", "Saturday"},
	},
	months: [12][2]string{
		{"Jan", "January"}, {"Feb", "February"}, {"Mar", "March"}, {"Apr", "April"},
		{"May", "May"}, {"Jun", "June"}, {"Jul", "July"}, {"Aug", "August"},
		{"Sep", "September"}, {"Oct", "October"}, {"Nov", "November"}, {"Dec", "December"},
	},
}

var German = &Locale{
	Tag:  language.German,
	Date: DmyDot,
	Time: HmsColon24,
	weekdays: [7][2]string{
		{"So", "Sonntag"}, {"Mo", "Montag"}, {"Di", "Dienstag"}, {"Mi", "Mittwoch"},
		{"Do", "Donnerstag"}, {"Fr", "Freitag"}, {"Sa", "Samstag"},
	},
	months: [12][2]string{
		{"Jan", "Januar"}, {"Feb", "Februar"}, {"Mär", "März"}, {"Apr", "April"},
		{"Mai", "Mai"}, {"Jun", "Juni"}, {"Jul", "Juli"}, {"Aug", "August"},
		{"Sep", "September"}, {"Okt", "Oktober"}, {"Nov", "November"}, {"Dez", "Dezember"},
	},
}

var supported = []*Locale{US, German}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// ForTag returns the supported locale closest to a BCP 47 or POSIX style tag
// such as "de-AT" or "en_GB". Unknown tags fall back to US.
func ForTag(tag string) (*Locale, error) {
	// POSIX suffixes: en_US.UTF-8, de_DE@euro
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	t, err := language.Parse(tag)
	if err != nil {
		return US, fmt.Errorf("parse locale %q: %w", tag, err)
	}
	_, index, conf := matcher.Match(t)
	if conf == language.No {
		return US, nil
	}
	return supported[index], nil
}

// Detect picks a locale from the user's environment.
func Detect() (*Locale, error) {
	tag, err := golocale.GetLocale()
	if err != nil {
		return US, fmt.Errorf("detect locale: %w", err)
	}
	return ForTag(tag)
}

func (l *Locale) WeekdayName(d time.Weekday) (short, long string) {
	n := l.weekdays[d]
	return n[0], n[1]
}

func (l *Locale) MonthName(m time.Month) (short, long string) {
	n := l.months[m-1]
	return n[0], n[1]
}

// FormatShort renders the numeric date, e.g. "03/10/2025" or "10.03.2025".
func (l *Locale) FormatShort(t time.Time) string {
	y, m, d := t.Date()
	switch l.Date {
	case DmyDot:
		return fmt.Sprintf("%02d.%02d.%04d", d, int(m), y)
	case MdySlash:
		return fmt.Sprintf("%02d/%02d/%04d", int(m), d, y)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
	}
}

// FormatLong renders e.g. "Monday, 10. March 2025".
func (l *Locale) FormatLong(t time.Time) string {
	y, m, d := t.Date()
	_, weekday := l.WeekdayName(t.Weekday())
	_, month := l.MonthName(m)
	return fmt.Sprintf("%s, %02d. %s %04d", weekday, d, month, y)
}

func (l *Locale) FormatTime(t time.Time) string {
	hour, minute, second := t.Clock()
	if l.Time == HmsColon24 {
		return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
	}
	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d:%02d %s", hour, minute, second, suffix)
}

func (l *Locale) String() string {
	return l.Tag.String()
}
