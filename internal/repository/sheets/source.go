package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
	"github.com/hxtubes/hxreport/internal/domain/records"
)

// dataRange covers every used column of a tab.
const dataRange = "A:ZZ"

// rangeReader is the slice of the Sheets API the source relies on.
type rangeReader interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// Source reads views from a spreadsheet where each view is a tab whose first
// row holds the column names.
type Source struct {
	reader rangeReader
	logger *zap.Logger
}

// apiReader implements rangeReader using the official Google Sheets API.
type apiReader struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

// NewSource builds a Google Sheets backed data source.
func NewSource(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*Source, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return newSource(&apiReader{service: service, spreadsheetID: cfg.SpreadsheetID}, logger), nil
}

func newSource(reader rangeReader, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{reader: reader, logger: logger}
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *apiReader) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}

// FetchAll returns every row of the tab named view.
func (s *Source) FetchAll(ctx context.Context, view string) ([]records.Row, error) {
	if view == "" {
		return nil, fmt.Errorf("view must not be empty")
	}

	values, err := s.reader.ReadRange(ctx, fmt.Sprintf("'%s'!%s", view, dataRange))
	if err != nil {
		return nil, err
	}

	rows := ToRows(values)
	s.logger.Debug("sheet tab read", zap.String("view", view), zap.Int("rows", len(rows)))
	return rows, nil
}

// FetchRanged returns the rows of view whose date column lies in [start, end].
// The Sheets API cannot filter, so the range is applied after reading the tab.
func (s *Source) FetchRanged(ctx context.Context, view string, start, end models.Date) ([]records.Row, error) {
	rows, err := s.FetchAll(ctx, view)
	if err != nil {
		return nil, err
	}
	return FilterDateRange(rows, start, end), nil
}

// ToRows converts a header-first value grid into column-keyed rows. Cells
// beyond the header width are dropped and short rows leave columns absent.
// Rows with no non-empty cell are skipped.
func ToRows(values [][]interface{}) []records.Row {
	rows := make([]records.Row, 0)
	if len(values) == 0 {
		return rows
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	for _, line := range values[1:] {
		row := records.Row{}
		blank := true
		for i, cell := range line {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
			if s, ok := cell.(string); !ok || strings.TrimSpace(s) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}

// FilterDateRange keeps rows whose date column parses to a day in [start, end].
func FilterDateRange(rows []records.Row, start, end models.Date) []records.Row {
	out := make([]records.Row, 0, len(rows))
	for _, row := range rows {
		d := records.ParseDate(row[records.ColDate])
		if !d.Known() || d.Before(start) || d.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out
}
