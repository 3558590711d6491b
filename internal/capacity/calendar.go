package capacity

import (
	"time"

	"github.com/example/resource-planner/internal/dateutil"
)

// DefaultHoliday is a company-wide holiday identified by a stable code.
// Codes can be disabled individually through the calendar configuration.
type DefaultHoliday struct {
	Code  string
	Name  string
	Month time.Month
	Day   int
}

// DefaultHolidays lists the company-wide holidays applied unless disabled.
var DefaultHolidays = []DefaultHoliday{
	{Code: "new_year", Name: "New Year's Day", Month: time.January, Day: 1},
	{Code: "labour_day", Name: "Labour Day", Month: time.May, Day: 1},
	{Code: "christmas_eve", Name: "Christmas Eve", Month: time.December, Day: 24},
	{Code: "christmas", Name: "Christmas Day", Month: time.December, Day: 25},
	{Code: "boxing_day", Name: "Boxing Day", Month: time.December, Day: 26},
	{Code: "new_years_eve", Name: "New Year's Eve", Month: time.December, Day: 31},
}

// CustomHoliday is a company-specific holiday. A nil Year makes it recur
// every year on the configured month and day.
type CustomHoliday struct {
	Name  string `yaml:"name" json:"name"`
	Month int    `yaml:"month" json:"month"`
	Day   int    `yaml:"day" json:"day"`
	Year  *int   `yaml:"year,omitempty" json:"year,omitempty"`
}

// CalendarConfig is the serialized holiday configuration consumed from the
// settings collaborator.
type CalendarConfig struct {
	DisabledCodes []string        `yaml:"disabled_codes" json:"disabled_codes"`
	Custom        []CustomHoliday `yaml:"custom" json:"custom"`
}

// Calendar answers holiday queries for capacity computation.
type Calendar struct {
	disabled map[string]struct{}
	custom   []CustomHoliday
}

// NewCalendar builds a Calendar from configuration. The zero Calendar is
// valid and applies all default holidays.
func NewCalendar(cfg CalendarConfig) Calendar {
	disabled := make(map[string]struct{}, len(cfg.DisabledCodes))
	for _, code := range cfg.DisabledCodes {
		disabled[code] = struct{}{}
	}
	custom := make([]CustomHoliday, len(cfg.Custom))
	copy(custom, cfg.Custom)
	return Calendar{disabled: disabled, custom: custom}
}

// IsHoliday reports whether the day matches an enabled default holiday or a
// custom holiday.
func (c Calendar) IsHoliday(day time.Time) bool {
	d := dateutil.Day(day)

	for _, holiday := range DefaultHolidays {
		if _, off := c.disabled[holiday.Code]; off {
			continue
		}
		if d.Month() == holiday.Month && d.Day() == holiday.Day {
			return true
		}
	}

	for _, holiday := range c.custom {
		if int(d.Month()) != holiday.Month || d.Day() != holiday.Day {
			continue
		}
		if holiday.Year != nil && d.Year() != *holiday.Year {
			continue
		}
		return true
	}

	return false
}

// HolidayName returns the display name of the holiday matching the day, if
// any. Custom holidays shadow default ones.
func (c Calendar) HolidayName(day time.Time) (string, bool) {
	d := dateutil.Day(day)

	for _, holiday := range c.custom {
		if int(d.Month()) != holiday.Month || d.Day() != holiday.Day {
			continue
		}
		if holiday.Year != nil && d.Year() != *holiday.Year {
			continue
		}
		return holiday.Name, true
	}

	for _, holiday := range DefaultHolidays {
		if _, off := c.disabled[holiday.Code]; off {
			continue
		}
		if d.Month() == holiday.Month && d.Day() == holiday.Day {
			return holiday.Name, true
		}
	}

	return "", false
}
