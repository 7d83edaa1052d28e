package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEpoch(t *testing.T) {
	// 2023-11-14T22:13:20Z, CET is UTC+1
	assert.Equal(t, "14/11/2023, 23:13:20", Epoch("1700000000"))
	// 2024-07-01T12:00:00Z, CEST is UTC+2
	assert.Equal(t, "01/07/2024, 14:00:00", Epoch("1719835200"))
	assert.Equal(t, "", Epoch("not-a-number"))
	assert.Equal(t, "", Epoch(""))
}

func TestFileDate(t *testing.T) {
	// 23:30 UTC on 31 Dec is already 1 Jan in Berlin
	ts := time.Date(2025, 12, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "01_01_2026", FileDate(ts))
	assert.NotContains(t, FileDate(time.Now()), "/")
}

func TestDateTime_Zone(t *testing.T) {
	assert.Equal(t, ReportZone, Berlin().String())
	ts := time.Date(2026, 10, 17, 8, 5, 9, 0, time.UTC)
	assert.Equal(t, "17/10/2026, 10:05:09", DateTime(ts))
}
