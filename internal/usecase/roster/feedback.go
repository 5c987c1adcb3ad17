package roster

import (
	"context"
	"log/slog"
	"time"

	"shiftwise/internal/bootstrap/logging"
	domainroster "shiftwise/internal/domain/roster"
	"shiftwise/internal/errs"
	"shiftwise/internal/usecase/venue"
)

const (
	overrideAdded   = "added_shift"
	overrideRemoved = "shift_removed"
)

// learnedAdjustments tallies manager overrides from the feedback window per
// (position, shift, weekday) and converts each tally into a headcount
// delta. Missing override data is not an error: the engine just learns
// nothing this week.
func (s *Service) learnedAdjustments(ctx context.Context, venueID string, asOf time.Time) map[feedbackKey]int {
	windowDays := s.scheduling.FeedbackWindowDays
	if windowDays <= 0 {
		windowDays = 90
	}
	sinceDate := asOf.AddDate(0, 0, -windowDays).Format(venue.DateLayout)

	rows, err := s.roster.ListOverrides(ctx, venueID, sinceDate)
	if err != nil {
		logging.Warn(ctx, "override history unavailable, skipping feedback", slog.Any("err", errs.Loggable(err)))
		return nil
	}

	tallies := map[feedbackKey]domainroster.OverrideTally{}
	for _, row := range rows {
		date, err := time.Parse(venue.DateLayout, row.BusinessDate)
		if err != nil {
			continue
		}
		key := feedbackKey{
			position: row.PositionName,
			shift:    row.ShiftType,
			weekday:  venue.WeekdayOf(date),
		}
		tally := tallies[key]
		switch row.Action {
		case overrideAdded:
			tally.Added++
		case overrideRemoved:
			tally.Removed++
		}
		tallies[key] = tally
	}

	adjustments := map[feedbackKey]int{}
	for key, tally := range tallies {
		if delta := domainroster.LearnAdjustment(tally); delta != 0 {
			adjustments[key] = delta
		}
	}
	if len(adjustments) > 0 {
		logging.Info(ctx, "learned staffing adjustments", slog.Int("cells", len(adjustments)))
	}
	return adjustments
}
