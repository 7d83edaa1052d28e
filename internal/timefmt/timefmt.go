// Package timefmt renders report timestamps the way the ops team reads them:
// en-GB day-first layout in Berlin local time.
package timefmt

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Berlin must resolve on hosts without zoneinfo
)

const (
	// ReportZone is the timezone all report timestamps are rendered in
	ReportZone = "Europe/Berlin"

	dateTimeLayout = "02/01/2006, 15:04:05"
	dateLayout     = "02/01/2006"
)

var berlin = mustLoad(ReportZone)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Berlin returns the report timezone
func Berlin() *time.Location {
	return berlin
}

// DateTime formats t as "DD/MM/YYYY, HH:MM:SS" in Berlin time
func DateTime(t time.Time) string {
	return t.In(berlin).Format(dateTimeLayout)
}

// Epoch formats a numeric unix-seconds string with DateTime.
// An unparseable value yields "".
func Epoch(seconds string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(seconds), 10, 64)
	if err != nil {
		return ""
	}
	return DateTime(time.Unix(n, 0))
}

// FileDate formats the Berlin calendar date of t as "DD_MM_YYYY", safe for file names
func FileDate(t time.Time) string {
	return strings.ReplaceAll(t.In(berlin).Format(dateLayout), "/", "_")
}
