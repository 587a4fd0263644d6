package dates

import "fmt"

// Locale holds the strings and layouts used to render dates.
type Locale struct {
	Name             string
	Today            string
	Tonight          string
	Tomorrow         string
	DayAfterTomorrow string
	Weekdays         [7]string // Sunday first, indexed by time.Weekday
	AbsoluteLayout   string
	ShortLayout      string
	NewProject       string // fmt pattern taking the project count
}

var ZH = Locale{
	Name:             "zh",
	Today:            "今天",
	Tonight:          "今晚",
	Tomorrow:         "明天",
	DayAfterTomorrow: "后天",
	Weekdays:         [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"},
	AbsoluteLayout:   "2006年1月2日",
	ShortLayout:      "01/02",
	NewProject:       "新建项目 %d",
}

var EN = Locale{
	Name:             "en",
	Today:            "Today",
	Tonight:          "This Evening",
	Tomorrow:         "Tomorrow",
	DayAfterTomorrow: "Day After Tomorrow",
	Weekdays:         [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	AbsoluteLayout:   "January 2, 2006",
	ShortLayout:      "01/02",
	NewProject:       "New Project %d",
}

// Default is the locale used by the package-level helpers.
var Default = ZH

// LocaleByName returns the locale registered under name.
func LocaleByName(name string) (Locale, error) {
	switch name {
	case "", ZH.Name:
		return ZH, nil
	case EN.Name:
		return EN, nil
	}
	return Locale{}, fmt.Errorf("unknown locale %q", name)
}

// NewProjectTitle is the title given to an untitled project when n
// projects already exist.
func (l Locale) NewProjectTitle(n int) string {
	return fmt.Sprintf(l.NewProject, n)
}
