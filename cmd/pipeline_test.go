package cmd

import (
	"testing"
	"time"
)

func TestPipelineFlags(t *testing.T) {
	if err := pipelineCmd.ParseFlags([]string{
		"--venue", "v1",
		"--venue", "v2",
		"--date", "2026-03-05",
		"--checks", "exports/2026-03-05.csv",
		"--concurrency", "2",
	}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	venues, _ := pipelineCmd.Flags().GetStringSlice("venue")
	if len(venues) != 2 || venues[0] != "v1" || venues[1] != "v2" {
		t.Fatalf("venue = %v, want [v1 v2]", venues)
	}

	date, _ := pipelineCmd.Flags().GetString("date")
	if date != "2026-03-05" {
		t.Fatalf("date = %q, want 2026-03-05", date)
	}

	checks, _ := pipelineCmd.Flags().GetString("checks")
	if checks != "exports/2026-03-05.csv" {
		t.Fatalf("checks = %q", checks)
	}

	concurrency, _ := pipelineCmd.Flags().GetInt("concurrency")
	if concurrency != 2 {
		t.Fatalf("concurrency = %d, want 2", concurrency)
	}
}

func TestScheduleWeekFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		date string
		want string
	}{
		{"2026-03-06", "2026-03-02"}, // a Friday maps back to its Monday
		{"2026-03-02", "2026-03-02"}, // a Monday is its own week start
		{"2026-03-08", "2026-03-02"}, // Sunday closes out the same week
	}
	for _, tc := range cases {
		date, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.date, err)
		}
		if got := scheduleWeekFor(date); got != tc.want {
			t.Fatalf("scheduleWeekFor(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}
