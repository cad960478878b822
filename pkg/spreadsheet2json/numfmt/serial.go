package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxSerial is the serial of 9999-12-31, the last date a workbook can hold.
const maxSerial = 2958465

var (
	epoch1900 = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

// SerialToTime converts a date serial (days since the workbook epoch, with
// the fractional part as time of day) to a UTC time.
//
// The 1900 system keeps the Lotus 1-2-3 leap-year bug: serial 60 is the
// nonexistent 1900-02-29, so every serial above 60 is one day ahead of the
// real calendar. Serial 60 itself maps to 1900-03-01. The time of day is
// rounded to the nearest second.
func SerialToTime(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 || serial >= maxSerial+1 {
		return time.Time{}, fmt.Errorf("numfmt: invalid serial %v", serial)
	}
	secs := int64(math.Round(serial * 86400))
	days, rem := int(secs/86400), time.Duration(secs%86400)*time.Second
	if date1904 {
		return epoch1904.AddDate(0, 0, days).Add(rem), nil
	}
	if days > 60 {
		days--
	}
	return epoch1900.AddDate(0, 0, days).Add(rem), nil
}

// RenderGeneral formats a number in the style of the General format:
// integers without a decimal point, other values in shortest form.
func RenderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == math.Trunc(val) && math.Abs(val) < 1e15 {
		return strconv.FormatInt(int64(val), 10)
	}
	return strconv.FormatFloat(val, 'G', -1, 64)
}

// TimeToSerial converts t to a date serial, the inverse of SerialToTime.
// Times are read in their own location; only the wall clock matters.
func TimeToSerial(t time.Time, date1904 bool) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	if date1904 {
		return wall.Sub(epoch1904).Hours() / 24
	}
	serial := wall.Sub(epoch1900).Hours() / 24
	if !wall.Before(time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)) {
		serial++
	}
	return serial
}
