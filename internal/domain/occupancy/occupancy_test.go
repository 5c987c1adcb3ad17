package occupancy

import (
	"errors"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 2, 6, hour, minute, 0, 0, time.UTC)
}

func TestActiveCovers(t *testing.T) {
	checks := []Check{
		{OpenTime: at(18, 0), CloseTime: at(19, 30), GuestCount: 4},
		{OpenTime: at(19, 0), CloseTime: at(20, 0), GuestCount: 2},
	}

	if got := ActiveCovers(checks, at(19, 15)); got != 6 {
		t.Fatalf("ActiveCovers(19:15) = %d, want 6", got)
	}
	if got := ActiveCovers(checks, at(18, 30)); got != 4 {
		t.Fatalf("ActiveCovers(18:30) = %d, want 4", got)
	}
	if got := ActiveCovers(checks, at(20, 15)); got != 0 {
		t.Fatalf("ActiveCovers(20:15) = %d, want 0", got)
	}
}

func TestActiveCoversHalfOpenBoundaries(t *testing.T) {
	checks := []Check{{OpenTime: at(18, 0), CloseTime: at(19, 0), GuestCount: 3}}

	if got := ActiveCovers(checks, at(18, 0)); got != 3 {
		t.Fatalf("ActiveCovers at open boundary = %d, want 3", got)
	}
	if got := ActiveCovers(checks, at(19, 0)); got != 0 {
		t.Fatalf("ActiveCovers at close boundary = %d, want 0", got)
	}
}

func TestNewAndDepartingCovers(t *testing.T) {
	checks := []Check{
		{OpenTime: at(18, 10), CloseTime: at(19, 45), GuestCount: 4},
		{OpenTime: at(19, 5), CloseTime: at(20, 30), GuestCount: 2},
	}

	if got := NewCovers(checks, at(18, 0), at(19, 0)); got != 4 {
		t.Fatalf("NewCovers(18-19) = %d, want 4", got)
	}
	if got := DepartingCovers(checks, at(19, 0), at(20, 0)); got != 4 {
		t.Fatalf("DepartingCovers(19-20) = %d, want 4", got)
	}
	if got := DepartingCovers(checks, at(20, 0), at(21, 0)); got != 2 {
		t.Fatalf("DepartingCovers(20-21) = %d, want 2", got)
	}
}

func TestHourlyCurve(t *testing.T) {
	checks := []Check{
		{OpenTime: at(18, 0), CloseTime: at(19, 30), GuestCount: 4},
		{OpenTime: at(19, 0), CloseTime: at(20, 0), GuestCount: 2},
	}
	day := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)

	samples := HourlyCurve(checks, day, 17, 20)
	if len(samples) != 4 {
		t.Fatalf("HourlyCurve returned %d samples, want 4", len(samples))
	}

	// 18:30 -> 4 active, 19:30 -> 2 active (first check closed exactly 19:30)
	if samples[1].Hour != 18 || samples[1].ActiveCovers != 4 {
		t.Fatalf("hour 18 sample = %+v, want active 4", samples[1])
	}
	if samples[2].ActiveCovers != 2 {
		t.Fatalf("hour 19 active = %d, want 2", samples[2].ActiveCovers)
	}
	if samples[1].NewCovers != 4 {
		t.Fatalf("hour 18 new = %d, want 4", samples[1].NewCovers)
	}
	if samples[2].DepartingCovers != 4 {
		t.Fatalf("hour 19 departing = %d, want 4", samples[2].DepartingCovers)
	}
}

func TestClassifyIntensity(t *testing.T) {
	cases := []struct {
		covers int
		want   Intensity
	}{
		{30, IntensityLow},     // <= 0.5 * p75
		{60, IntensityNormal},  // <= p75
		{90, IntensityHigh},    // <= p90
		{120, IntensityExtreme},
	}
	for _, tc := range cases {
		if got := ClassifyIntensity(tc.covers, 80, 100); got != tc.want {
			t.Fatalf("ClassifyIntensity(%d) = %q, want %q", tc.covers, got, tc.want)
		}
	}
}

func TestEstimateCloseTimeCompounds(t *testing.T) {
	open := at(18, 0)

	// Base only.
	if got := EstimateCloseTime(open, 90, 0, 2); !got.Equal(open.Add(90 * time.Minute)) {
		t.Fatalf("EstimateCloseTime base = %v", got)
	}

	// Party of 6 -> 90 * 1.3 = 117.
	if got := EstimateCloseTime(open, 90, 0, 6); !got.Equal(open.Add(117 * time.Minute)) {
		t.Fatalf("EstimateCloseTime party6 = %v", got)
	}

	// Party of 6 at >$200/guest -> int(117 * 1.25) = 146; scalings compound.
	if got := EstimateCloseTime(open, 90, 1500, 6); !got.Equal(open.Add(146 * time.Minute)) {
		t.Fatalf("EstimateCloseTime party6 high spend = %v", got)
	}

	// Party of 4 at >$100/guest -> int(int(90*1.15) * 1.1) = int(103*1.1) = 113.
	if got := EstimateCloseTime(open, 90, 500, 4); !got.Equal(open.Add(113 * time.Minute)) {
		t.Fatalf("EstimateCloseTime party4 mid spend = %v", got)
	}
}

func TestCheckValidate(t *testing.T) {
	ok := Check{OpenTime: at(18, 0), CloseTime: at(19, 0), GuestCount: 2}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := Check{OpenTime: at(19, 0), CloseTime: at(18, 0), GuestCount: 2}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("Validate() error = %v, want ErrInvalidWindow", err)
	}

	neg := Check{OpenTime: at(18, 0), CloseTime: at(19, 0), GuestCount: -1}
	if err := neg.Validate(); !errors.Is(err, ErrInvalidGuestCount) {
		t.Fatalf("Validate() error = %v, want ErrInvalidGuestCount", err)
	}
}
