// Package export renders prepared session rows as CSV or JSON downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/blaisecz/sleep-bot/internal/domain"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", domain.ErrInvalidInput, s)
	}
}

// ContentType returns the MIME type to serve the export with.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds the download name for a chat's export.
func (f Format) Filename(chatID int64) string {
	return "sleep_stats_" + strconv.FormatInt(chatID, 10) + "." + string(f)
}

// csvHeader is the fixed column order; it matches the ExportRow JSON keys.
var csvHeader = []string{"date", "sleep_start", "sleep_end", "duration_hours", "quality_rating", "note"}

// CSV renders rows as a CSV document with a header line. No rows yields
// an empty document rather than a bare header.
func CSV(rows []domain.ExportRow) ([]byte, error) {
	if len(rows) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Date,
			row.SleepStart,
			row.SleepEnd,
			strconv.FormatFloat(row.DurationHours, 'f', -1, 64),
			row.QualityRating,
			row.Note,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON renders rows as an indented JSON array. No rows yields "[]".
func JSON(rows []domain.ExportRow) ([]byte, error) {
	if len(rows) == 0 {
		return []byte("[]"), nil
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export rows: %w", err)
	}
	return data, nil
}

// Render encodes rows in the given format.
func Render(f Format, rows []domain.ExportRow) ([]byte, error) {
	if f == FormatJSON {
		return JSON(rows)
	}
	return CSV(rows)
}
