package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"khata/internal/domain"
	"khata/internal/repository/memory"
)

func workbook(t *testing.T, rows ...[]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	return f
}

func TestReadRegions(t *testing.T) {
	f := workbook(t,
		[]interface{}{"Code", "Name", "Short Code"},
		[]interface{}{"27", "Maharashtra", "mh"},
		[]interface{}{"", "", ""},
		[]interface{}{"29", " Karnataka ", "KA"},
		[]interface{}{"27", "Duplicate", "XX"},
	)

	entries, err := readRegions(f)
	require.NoError(t, err)
	assert.Equal(t, []domain.Jurisdiction{
		{Code: "27", Name: "Maharashtra", ShortCode: "MH"},
		{Code: "29", Name: "Karnataka", ShortCode: "KA"},
	}, entries)
}

func TestReadRegions_Rejects(t *testing.T) {
	_, err := readRegions(workbook(t,
		[]interface{}{"27", "Maharashtra"},
		[]interface{}{"bad code!", "Nowhere"},
	))
	assert.ErrorContains(t, err, "row 2")

	_, err = readRegions(workbook(t, []interface{}{"27", ""}))
	assert.ErrorContains(t, err, "no name")

	_, err = readRegions(workbook(t, []interface{}{"Code", "Name"}))
	assert.ErrorContains(t, err, "no regions")
}

func TestWriteSQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, []domain.Jurisdiction{
		{Code: "07", Name: "Delhi", ShortCode: "DL"},
		{Code: "99", Name: "Centre's Jurisdiction"},
	}))

	sql := buf.String()
	assert.True(t, strings.HasPrefix(sql, "-- Jurisdiction seed data"))
	assert.Contains(t, sql, "('07', 'Delhi', 'DL')")
	assert.Contains(t, sql, "'Centre''s Jurisdiction'")
	assert.Contains(t, sql, "ON CONFLICT (code) DO UPDATE")
	assert.Equal(t, 1, strings.Count(sql, "INSERT INTO"))
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}

func TestWriteSQL_Batches(t *testing.T) {
	entries := make([]domain.Jurisdiction, batchSize+1)
	for i := range entries {
		entries[i] = domain.Jurisdiction{Code: "X", Name: "N"}
	}
	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, entries))
	assert.Equal(t, 2, strings.Count(buf.String(), "INSERT INTO"))
}

func TestTemplateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.xlsx")
	require.NoError(t, writeTemplate(path, memory.IndianStates))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	entries, err := readRegions(f)
	require.NoError(t, err)
	assert.Equal(t, memory.IndianStates, entries)
}
