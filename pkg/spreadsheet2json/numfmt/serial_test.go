package numfmt

import (
	"math"
	"testing"
	"time"
)

func TestSerialToTime(t *testing.T) {
	tests := []struct {
		serial   float64
		date1904 bool
		expected time.Time
	}{
		{1, false, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
		{59, false, time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC)},
		{60, false, time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)},
		{61, false, time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC)},
		{44994, false, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)},
		{44994.5, false, time.Date(2023, 3, 9, 12, 0, 0, 0, time.UTC)},
		{44994 + 14706.0/86400, false, time.Date(2023, 3, 9, 4, 5, 6, 0, time.UTC)},
		{0.99999999, false, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)},
		{0, true, time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)},
		{43532, true, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := SerialToTime(tt.serial, tt.date1904)
		if err != nil {
			t.Errorf("SerialToTime(%v, %v) failed: %v", tt.serial, tt.date1904, err)
			continue
		}
		if !got.Equal(tt.expected) {
			t.Errorf("SerialToTime(%v, %v) = %v, expected %v", tt.serial, tt.date1904, got, tt.expected)
		}
	}
}

func TestSerialToTimeInvalid(t *testing.T) {
	for _, serial := range []float64{-1, math.NaN(), math.Inf(1), 1e9} {
		if _, err := SerialToTime(serial, false); err == nil {
			t.Errorf("SerialToTime(%v) expected error", serial)
		}
	}
}

func TestRenderGeneral(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{44994, "44994"},
		{-1, "-1"},
		{0.5, "0.5"},
	}

	for _, tt := range tests {
		if got := RenderGeneral(tt.input); got != tt.expected {
			t.Errorf("RenderGeneral(%v) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTimeToSerial(t *testing.T) {
	tests := []struct {
		input    time.Time
		date1904 bool
		expected float64
	}{
		{time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), false, 1},
		{time.Date(1900, 2, 28, 0, 0, 0, 0, time.UTC), false, 59},
		{time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), false, 61},
		{time.Date(2023, 3, 9, 12, 0, 0, 0, time.UTC), false, 44994.5},
		{time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC), true, 43532},
	}

	for _, tt := range tests {
		if got := TimeToSerial(tt.input, tt.date1904); got != tt.expected {
			t.Errorf("TimeToSerial(%v, %v) = %v, expected %v", tt.input, tt.date1904, got, tt.expected)
		}
	}
}
