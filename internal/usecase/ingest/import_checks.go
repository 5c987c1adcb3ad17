// Package ingest loads POS check exports into the store. The importer is
// deliberately forgiving: malformed rows are logged and dropped, and a
// missing close time is estimated from the open time so late exports still
// produce usable occupancy data.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/domain/occupancy"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
	"shiftwise/internal/usecase/venue"
)

// Checks opened after midnight but before this hour belong to the prior
// business date.
const businessDayCutoverHour = 4

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type Service struct {
	checks ports.CheckRepository
	venues *venue.Resolver
	tx     ports.UnitOfWork
}

func NewService(checks ports.CheckRepository, venues *venue.Resolver, tx ports.UnitOfWork) *Service {
	return &Service{checks: checks, venues: venues, tx: tx}
}

type ImportInput struct {
	VenueID string
	Path    string
}

type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportCSV loads one POS export file. Expected header columns:
// check_id, opened_at, closed_at, guests, total. closed_at may be empty.
func (s *Service) ImportCSV(ctx context.Context, input ImportInput) (ImportResult, error) {
	if ctx == nil {
		return ImportResult{}, errors.New("context is required")
	}
	if strings.TrimSpace(input.VenueID) == "" {
		return ImportResult{}, errors.New("venue id is required")
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "usecase.ingest"),
		slog.String("venue_id", input.VenueID),
	)

	cfg, err := s.venues.Resolve(ctx, input.VenueID)
	if err != nil {
		return ImportResult{}, errs.Wrap(err, "resolve venue config")
	}

	file, err := os.Open(input.Path)
	if err != nil {
		return ImportResult{}, errs.Wrapf(err, "open export %q", input.Path)
	}
	defer file.Close()

	result, records, err := s.parse(logCtx, file, input.VenueID, cfg)
	if err != nil {
		return ImportResult{}, err
	}

	// One export file lands atomically: a failure partway through a large
	// batch must not leave half the file imported.
	err = s.tx.WithTx(ctx, func(txCtx context.Context) error {
		return s.checks.UpsertChecks(txCtx, records)
	})
	if err != nil {
		return ImportResult{}, errs.Wrap(err, "store checks")
	}

	logging.Info(logCtx, "checks imported",
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *Service) parse(ctx context.Context, r io.Reader, venueID string, cfg ports.VenueConfigRecord) (ImportResult, []ports.CheckRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, nil, errs.Wrap(err, "read header")
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"check_id", "opened_at", "guests"} {
		if _, ok := cols[required]; !ok {
			return ImportResult{}, nil, errs.Wrapf(errors.New("missing column"), "header %q", required)
		}
	}

	var result ImportResult
	var records []ports.CheckRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			logging.Warn(ctx, "unreadable row dropped", slog.Int("line", line), slog.Any("err", errs.Loggable(err)))
			continue
		}

		record, err := parseRow(row, cols, venueID, cfg)
		if err != nil {
			result.Skipped++
			logging.Warn(ctx, "invalid row dropped", slog.Int("line", line), slog.Any("err", errs.Loggable(err)))
			continue
		}
		records = append(records, record)
		result.Imported++
	}
	return result, records, nil
}

func parseRow(row []string, cols map[string]int, venueID string, cfg ports.VenueConfigRecord) (ports.CheckRecord, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	externalID := field("check_id")
	if externalID == "" {
		return ports.CheckRecord{}, errors.New("empty check_id")
	}

	openTime, err := parseTime(field("opened_at"))
	if err != nil {
		return ports.CheckRecord{}, errs.Wrap(err, "opened_at")
	}

	guests, err := strconv.Atoi(field("guests"))
	if err != nil {
		return ports.CheckRecord{}, errs.Wrap(err, "guests")
	}

	total := 0.0
	if raw := field("total"); raw != "" {
		total, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return ports.CheckRecord{}, errs.Wrap(err, "total")
		}
	}

	var closeTime time.Time
	estimated := false
	if raw := field("closed_at"); raw != "" {
		closeTime, err = parseTime(raw)
		if err != nil {
			return ports.CheckRecord{}, errs.Wrap(err, "closed_at")
		}
	} else {
		closeTime = occupancy.EstimateCloseTime(openTime, cfg.DwellMinutes, total, guests)
		estimated = true
	}

	check := occupancy.Check{
		ExternalID:  externalID,
		OpenTime:    openTime,
		CloseTime:   closeTime,
		GuestCount:  guests,
		TotalAmount: total,
	}
	if err := check.Validate(); err != nil {
		return ports.CheckRecord{}, err
	}

	return ports.CheckRecord{
		VenueID:        venueID,
		BusinessDate:   businessDate(openTime),
		ExternalID:     externalID,
		OpenTime:       openTime,
		CloseTime:      closeTime,
		GuestCount:     guests,
		TotalAmount:    total,
		CloseEstimated: estimated,
	}, nil
}

func parseTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func businessDate(openTime time.Time) string {
	day := openTime
	if openTime.Hour() < businessDayCutoverHour {
		day = openTime.AddDate(0, 0, -1)
	}
	return day.Format(venue.DateLayout)
}
