// Command seedregions converts a jurisdiction workbook into a SQL seed file.
// The first sheet holds one region per row: code, name, short code. A header
// row whose first cell reads "Code" is skipped.
//
// Usage:
//
//	go run ./cmd/seedregions -in regions.xlsx -out db/seeds/jurisdictions.sql
//	go run ./cmd/seedregions -template regions.xlsx
//
// -template writes the built-in GST state directory as a starting workbook.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"khata/internal/domain"
	"khata/internal/repository/memory"
)

const batchSize = 100

var codeRe = regexp.MustCompile(`^[0-9A-Za-z]{1,8}$`)

func main() {
	in := flag.String("in", "regions.xlsx", "input workbook")
	out := flag.String("out", "db/seeds/jurisdictions.sql", "output SQL file")
	template := flag.String("template", "", "write the built-in directory to this workbook and exit")
	flag.Parse()

	if err := run(*in, *out, *template); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outPath, templatePath string) error {
	if templatePath != "" {
		return writeTemplate(templatePath, memory.IndianStates)
	}

	f, err := excelize.OpenFile(inPath)
	if err != nil {
		return errors.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	entries, err := readRegions(f)
	if err != nil {
		return err
	}
	log.Printf("read %d regions from %s", len(entries), inPath)

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() { _ = out.Close() }()

	if err := writeSQL(out, entries); err != nil {
		return err
	}
	log.Printf("wrote %s", outPath)
	return nil
}

// readRegions parses the first sheet. Duplicate codes keep the first row.
func readRegions(f *excelize.File) ([]domain.Jurisdiction, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
	}

	var entries []domain.Jurisdiction
	for i, row := range rows {
		cell := func(n int) string {
			if n < len(row) {
				return strings.TrimSpace(row[n])
			}
			return ""
		}
		code, name := cell(0), cell(1)
		if code == "" && name == "" {
			continue
		}
		if i == 0 && strings.EqualFold(code, "code") {
			continue
		}
		if !codeRe.MatchString(code) {
			return nil, errors.Newf("row %d: invalid region code %q", i+1, code)
		}
		if name == "" {
			return nil, errors.Newf("row %d: region %s has no name", i+1, code)
		}
		entries = append(entries, domain.Jurisdiction{
			Code:      code,
			Name:      name,
			ShortCode: strings.ToUpper(cell(2)),
		})
	}

	entries = lo.UniqBy(entries, func(j domain.Jurisdiction) string { return j.Code })
	if len(entries) == 0 {
		return nil, errors.New("workbook has no regions")
	}
	return entries, nil
}

// writeSQL renders batched upserts inside one transaction.
func writeSQL(w io.Writer, entries []domain.Jurisdiction) error {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Jurisdiction seed data generated from a workbook.\n")
	fmt.Fprintf(&b, "-- %d regions in batches of %d.\n", len(entries), batchSize)
	b.WriteString("BEGIN;\n\n")

	for _, batch := range lo.Chunk(entries, batchSize) {
		b.WriteString("INSERT INTO jurisdictions (code, name, short_code) VALUES\n")
		values := lo.Map(batch, func(j domain.Jurisdiction, _ int) string {
			return fmt.Sprintf("    (%s, %s, %s)", quote(j.Code), quote(j.Name), quote(j.ShortCode))
		})
		b.WriteString(strings.Join(values, ",\n"))
		b.WriteString("\nON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, short_code = EXCLUDED.short_code;\n\n")
	}
	b.WriteString("COMMIT;\n")

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write seed file")
}

func writeTemplate(path string, entries []domain.Jurisdiction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Regions"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Code", "Name", "Short Code"}); err != nil {
		return err
	}
	for i, j := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{j.Code, j.Name, j.ShortCode}); err != nil {
			return err
		}
	}
	// Codes keep their leading zero only as text.
	style, err := f.NewStyle(&excelize.Style{NumFmt: 49})
	if err != nil {
		return err
	}
	if err := f.SetColStyle(sheet, "A", style); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
