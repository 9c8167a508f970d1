// Package export renders numbering history for download as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"khata/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

const historySheet = "History"

var columns = []string{
	"Series",
	"Document Number",
	"Sequence",
	"Document ID",
	"Generated At",
}

// Writer writes numbering history rows as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteHistory writes one row per history record.
func (w *Writer) WriteHistory(series *domain.NumberingSeries, rows []domain.NumberingHistory) error {
	for i := range rows {
		if err := w.csv.Write(historyRow(series, &rows[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the BOM, the header and every row to out.
func WriteCSV(out io.Writer, series *domain.NumberingSeries, rows []domain.NumberingHistory) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteHistory(series, rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes a single-sheet workbook with the header and every row to out.
func WriteXLSX(out io.Writer, series *domain.NumberingSeries, rows []domain.NumberingHistory) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		h := &rows[i]
		values := []interface{}{
			seriesLabel(series),
			h.GeneratedNumber,
			h.SequenceUsed,
			documentID(h),
			h.GeneratedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func historyRow(series *domain.NumberingSeries, h *domain.NumberingHistory) []string {
	return []string{
		seriesLabel(series),
		h.GeneratedNumber,
		strconv.FormatInt(h.SequenceUsed, 10),
		documentID(h),
		h.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func seriesLabel(s *domain.NumberingSeries) string {
	if s == nil {
		return ""
	}
	if s.Name != "" {
		return s.Name
	}
	return s.Prefix
}

func documentID(h *domain.NumberingHistory) string {
	if h.DocumentID == nil {
		return ""
	}
	return h.DocumentID.String()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename keeps letters, digits, hyphens and underscores, collapses
// runs of underscores and truncates to 100 characters.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "history"
	}
	return s
}

// BuildFilename returns {sanitized name}_{YYYY-MM-DD}.{ext} for Content-Disposition.
func BuildFilename(name, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), at.Format("2006-01-02"), ext)
}
