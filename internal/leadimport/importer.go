// Package leadimport turns marketing CSV exports into lead records. Rows are
// parsed, remapped to internal field names, validated, deduplicated against
// the backend and the file itself, then created one at a time to stay under
// the backend's rate limit.
package leadimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nadlan-crm/brokerctl/internal/crm"
	"github.com/nadlan-crm/brokerctl/internal/retry"
	"github.com/nadlan-crm/brokerctl/internal/utils"
)

const (
	maxAttempts = 3

	// Backoff for rate-limited creates: 5s per consecutive rejection,
	// capped at 30s.
	backoffStep = 5 * time.Second
	backoffCap  = 30 * time.Second

	// Self-throttle between rows: a fixed base plus 1s per recent
	// rate-limit rejection.
	rowDelayBase = 500 * time.Millisecond
	rowDelayStep = time.Second
)

// API is the subset of the CRM client the importer needs.
type API interface {
	ListLeads() (*crm.Leads, error)
	CreateLead(record map[string]any) error
}

type Importer struct {
	api    API
	logger *zap.Logger
	policy retry.Policy
	sleep  retry.Sleep
	now    func() time.Time

	// DryRun stops the run after validation and deduplication; nothing
	// is written.
	DryRun bool
}

func New(api API, logger *zap.Logger) *Importer {
	return &Importer{
		api:    api,
		logger: logger,
		policy: retry.Policy{
			MaxAttempts: maxAttempts,
			Backoff:     retry.LinearCapped(backoffStep, backoffCap),
		},
		sleep: utils.WaitFor,
		now:   time.Now,
	}
}

// Run imports the CSV text. A structural problem with the file aborts the
// run before any write; per-row creation failures are isolated and do not
// stop the remaining rows.
func (imp *Importer) Run(ctx context.Context, text string) (*Result, error) {
	rows, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}

	existing, err := imp.api.ListLeads()
	if err != nil {
		return nil, fmt.Errorf("loading existing leads: %w", err)
	}

	imp.logger.Info("loaded existing leads for duplicate detection", zap.Int("count", existing.Len()))

	taken := existing.IdentityKeys()
	importDate := imp.now().Format(time.DateOnly)

	valid, skipped := imp.prepare(rows, taken, importDate)

	result := &Result{
		Total:   len(rows),
		Valid:   len(valid),
		Skipped: len(skipped),
	}
	if len(skipped) > maxSkippedExamples {
		result.SkippedExamples = skipped[:maxSkippedExamples]
	} else {
		result.SkippedExamples = skipped
	}

	if imp.DryRun {
		imp.logger.Info("dry run, skipping record creation", zap.Int("valid", len(valid)))
		return result, nil
	}

	result.RowErrors = imp.create(ctx, valid)
	result.Errors = len(result.RowErrors)
	result.Imported = len(valid) - len(result.RowErrors)

	return result, nil
}

// prepare remaps, validates, and deduplicates the parsed rows. The taken set
// grows as rows are accepted, so duplicates within the file are caught after
// the first occurrence.
func (imp *Importer) prepare(rows []Row, taken crm.LeadKeySet, importDate string) ([]map[string]any, []SkippedRow) {
	var valid []map[string]any
	var skipped []SkippedRow

	for _, row := range rows {
		record := MapRow(row, importDate)

		if missing := missingFields(record); len(missing) > 0 {
			skipped = append(skipped, SkippedRow{
				Record: record,
				Reason: "missing required fields: " + strings.Join(missing, ", "),
				Line:   row.Line,
			})
			continue
		}

		key := crm.LeadIdentityKey(
			recordString(record, "first_name"),
			recordString(record, "phone_number"),
			recordString(record, "street"),
		)
		if taken.Has(key) {
			skipped = append(skipped, SkippedRow{
				Record: record,
				Reason: "duplicate (same first name, phone and street)",
				Line:   row.Line,
			})
			continue
		}

		valid = append(valid, record)
		taken.Add(key)
	}

	return valid, skipped
}

// missingFields returns the required fields absent from the record, in a
// fixed order.
func missingFields(record map[string]any) []string {
	var missing []string
	for _, field := range []string{"phone_number", "first_name", "client_type"} {
		if recordString(record, field) == "" {
			missing = append(missing, field)
		}
	}

	return missing
}

// create submits the accepted records sequentially. Rate-limited creates are
// retried with backoff; the consecutive rate-limit counter is shared across
// rows and reset only by a success. Any other failure is recorded and the
// row abandoned.
func (imp *Importer) create(ctx context.Context, records []map[string]any) []RowError {
	var rowErrors []RowError
	consecutiveRateLimits := 0

	for i, record := range records {
		imp.logger.Info("creating lead",
			zap.Int("row", i+1),
			zap.Int("of", len(records)),
		)

		err := retry.Do(ctx, imp.policy, imp.sleep, &consecutiveRateLimits, isRateLimit, func() error {
			return imp.api.CreateLead(record)
		})

		switch {
		case err == nil:
		case errors.Is(err, retry.ErrAttemptsExhausted):
			rowErrors = append(rowErrors, RowError{
				Record: record,
				Err:    errors.New("failed after several attempts"),
			})
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			// The context is gone; remaining rows cannot be written.
			for _, rest := range records[i:] {
				rowErrors = append(rowErrors, RowError{Record: rest, Err: err})
			}
			return rowErrors
		default:
			imp.logger.Warn("creating lead failed", zap.Error(err))
			rowErrors = append(rowErrors, RowError{Record: record, Err: err})
		}

		if i < len(records)-1 {
			delay := rowDelayBase + time.Duration(consecutiveRateLimits)*rowDelayStep
			if err := imp.sleep(ctx, delay); err != nil {
				for _, rest := range records[i+1:] {
					rowErrors = append(rowErrors, RowError{Record: rest, Err: err})
				}
				return rowErrors
			}
		}
	}

	return rowErrors
}

// isRateLimit classifies an error as a retryable rate-limit rejection.
func isRateLimit(err error) bool {
	var apiErr *crm.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRateLimit()
	}

	return strings.Contains(err.Error(), "Rate limit") || strings.Contains(err.Error(), "429")
}

// Err aggregates the per-row creation errors into one value for callers that
// only care whether anything failed.
func (r *Result) Err() error {
	var err error
	for _, rowErr := range r.RowErrors {
		err = multierr.Append(err, rowErr.Err)
	}

	return err
}
