package core

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = [...]string{
	"JANUARI", "FEBRUARI", "MARET", "APRIL", "MEI", "JUNI",
	"JULI", "AGUSTUS", "SEPTEMBER", "OKTOBER", "NOVEMBER", "DESEMBER",
}

// MonthName returns the upper-case Indonesian name used on reports.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// FilterSpec selects the records shown in the list and in exported reports.
// An empty PlatePattern matches every plate and an empty ServiceType matches
// every type.
type FilterSpec struct {
	Month        time.Month
	Year         int
	PlatePattern string
	ServiceType  ServiceType
}

// MonthFilter returns the unfiltered spec for the month containing now.
func MonthFilter(now time.Time) FilterSpec {
	return FilterSpec{Month: now.Month(), Year: now.Year()}
}

func (f FilterSpec) Validate() error {
	if f.Month < time.January || f.Month > time.December {
		return fmt.Errorf("invalid month %d", f.Month)
	}
	if f.Year < 1 || f.Year > 9999 {
		return fmt.Errorf("invalid year %d", f.Year)
	}
	if f.ServiceType != "" && !f.ServiceType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidServiceType, f.ServiceType)
	}
	return nil
}

// Key identifies the spec for memoization; plate matching is case-insensitive
// so patterns differing only in case share a key.
func (f FilterSpec) Key() string {
	return fmt.Sprintf("%04d-%02d|%s|%s", f.Year, int(f.Month), strings.ToLower(f.PlatePattern), f.ServiceType)
}
