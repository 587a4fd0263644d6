// Package dates classifies due dates relative to a reference time and
// renders them for display. Every function is pure given its arguments;
// callers sample now once and pass it down.
package dates

import "time"

// Bucket is the scheduling slot a due date falls into.
type Bucket int

const (
	BucketTodayMorning Bucket = iota
	BucketToday
	BucketTonight
	BucketTomorrow
	BucketDayAfterTomorrow
	BucketThisWeek
	BucketLater
)

var bucketNames = [...]string{
	"today-morning", "today", "tonight", "tomorrow", "day-after-tomorrow", "this-week", "later",
}

func (b Bucket) String() string {
	if b < 0 || int(b) >= len(bucketNames) {
		return "unknown"
	}
	return bucketNames[b]
}

// RelativeKind says how ClassifyRelative described a date.
type RelativeKind int

const (
	RelTomorrow RelativeKind = iota
	RelDayAfterTomorrow
	RelWithinWeek
	RelAbsolute
)

// Relative is a short description of a date: a named day, a weekday, or
// an MM/DD date.
type Relative struct {
	Kind  RelativeKind
	Label string
}

// IsTodayMorning reports whether d is on now's day or earlier and falls
// before noon.
func IsTodayMorning(d, now time.Time) bool {
	if !sameDayOrPast(d, now) {
		return false
	}
	return d.In(now.Location()).Hour() < 12
}

// IsTodayTonight reports whether d is on now's day or earlier and falls at
// or after 18:00.
func IsTodayTonight(d, now time.Time) bool {
	if !sameDayOrPast(d, now) {
		return false
	}
	return d.In(now.Location()).Hour() >= 18
}

// Classify puts d into a bucket. Past days count as today, split into
// morning, evening and the rest by hour.
func Classify(d, now time.Time) Bucket {
	switch {
	case IsTodayMorning(d, now):
		return BucketTodayMorning
	case IsTodayTonight(d, now):
		return BucketTonight
	case sameDayOrPast(d, now):
		return BucketToday
	}
	switch off := DayOffset(d, now); {
	case off == 1:
		return BucketTomorrow
	case off == 2:
		return BucketDayAfterTomorrow
	case off < 7:
		return BucketThisWeek
	}
	return BucketLater
}

// DayOffset is the number of calendar days from now's date to d's date,
// both taken in now's location. Negative for past days.
func DayOffset(d, now time.Time) int {
	loc := now.Location()
	dy, dm, dd := d.In(loc).Date()
	ny, nm, nd := now.Date()
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

// StartOfTomorrow is midnight at the start of the day after now.
func StartOfTomorrow(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// TodayAt is the given hour on now's day.
func TodayAt(now time.Time, hour int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, now.Location())
}

// ClassifyRelative describes d in the default locale.
func ClassifyRelative(d, now time.Time) Relative {
	return Default.ClassifyRelative(d, now)
}

// FormatAbsolute renders d as a full date in the default locale.
func FormatAbsolute(d time.Time) string {
	return Default.FormatAbsolute(d)
}

// FormatSpecial renders d in the default locale.
func FormatSpecial(d, now time.Time) string {
	return Default.FormatSpecial(d, now)
}

// ClassifyRelative names tomorrow and the day after, then the weekday for
// anything within the coming week, and falls back to MM/DD.
func (l Locale) ClassifyRelative(d, now time.Time) Relative {
	off := DayOffset(d, now)
	switch {
	case off == 1:
		return Relative{Kind: RelTomorrow, Label: l.Tomorrow}
	case off == 2:
		return Relative{Kind: RelDayAfterTomorrow, Label: l.DayAfterTomorrow}
	case off >= 0 && off < 7:
		return Relative{Kind: RelWithinWeek, Label: l.Weekdays[d.In(now.Location()).Weekday()]}
	}
	return Relative{Kind: RelAbsolute, Label: d.In(now.Location()).Format(l.ShortLayout)}
}

func (l Locale) FormatAbsolute(d time.Time) string {
	return d.Format(l.AbsoluteLayout)
}

// FormatSpecial names tomorrow and the day after, and otherwise gives the
// full date.
func (l Locale) FormatSpecial(d, now time.Time) string {
	switch DayOffset(d, now) {
	case 1:
		return l.Tomorrow
	case 2:
		return l.DayAfterTomorrow
	}
	return l.FormatAbsolute(d.In(now.Location()))
}

// Label is the short due-date text shown next to a task.
// Overdue dates show as MM/DD.
func (l Locale) Label(d, now time.Time) string {
	if DayOffset(d, now) < 0 {
		return d.In(now.Location()).Format(l.ShortLayout)
	}
	switch Classify(d, now) {
	case BucketTonight:
		return l.Tonight
	case BucketTodayMorning, BucketToday:
		return l.Today
	}
	return l.ClassifyRelative(d, now).Label
}

func sameDayOrPast(d, now time.Time) bool {
	return DayOffset(d, now) == 0 || d.Before(now)
}
