package merge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pivolan/bandwidth_insights/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var header = []string{"S/N", "COMPANY NAME", "BRANCH/LOCATION", "STATE", "REGION", "WAN/INTERNET CLIENT", "BANDWIDTH SUBSCRIPTION (Mbps)", "CUSTOMER STATUS", "CLIENT"}

func sheetRows() [][]string {
	return [][]string{
		{"CORPORATE CLIENTS"},
		header,
		{"1", "Acme", "HQ", "Lagos", "South West", "WAN", "100", "Active", "Corporate"},
		{},
		{"2", "Zeta", "Ikeja", "Lagos", "South West", "WAN", "20", "Active", "Corporate"},
		{"", "", ""},
		{"RETAIL CLIENTS"},
		header,
		{"1", "Beta", "Wuse", "FCT", "North Central", "Internet", "50", "Disconnected"},
	}
}

func TestMerge(t *testing.T) {
	merged, err := Merge(sheetRows(), "S/N")
	require.NoError(t, err)

	assert.Equal(t, header, merged.Header)
	require.Len(t, merged.Rows, 3)
	for i, row := range merged.Rows {
		assert.Len(t, row, len(header))
		assert.Equal(t, []string{"1", "2", "3"}[i], row[0])
	}
	assert.Equal(t, "Beta", merged.Rows[2][1])
	assert.Equal(t, "", merged.Rows[2][8])
}

func TestSplitErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{"No header", [][]string{{"a", "b"}, {"1", "2"}}, ErrHeaderRows},
		{"One header", [][]string{header, {"1", "Acme"}}, ErrHeaderRows},
		{"Empty first table", [][]string{header, {}, header, {"1", "Beta"}}, ErrEmptyTable},
		{"Empty second table", [][]string{header, {"1", "Acme"}, header, {"", ""}}, ErrEmptyTable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Split(tt.rows, "S/N")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "clients.xlsx")

	x := excelize.NewFile()
	_, err := x.NewSheet(DefaultSheet)
	require.NoError(t, err)
	for r, row := range sheetRows() {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, x.SetCellStr(DefaultSheet, cell, v))
		}
	}
	require.NoError(t, x.SaveAs(xlsxPath))
	require.NoError(t, x.Close())

	out := filepath.Join(dir, "data", "merged_clients.csv")
	merged, err := File(xlsxPath, DefaultSheet, out)
	require.NoError(t, err)
	assert.Len(t, merged.Rows, 3)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(header, ",")+"\n"))

	ds, err := loader.New(nil).LoadFile(out)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 3)
}

func TestFileMissingSheet(t *testing.T) {
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "clients.xlsx")
	x := excelize.NewFile()
	require.NoError(t, x.SaveAs(xlsxPath))
	require.NoError(t, x.Close())

	_, err := File(xlsxPath, "No Such Sheet", filepath.Join(dir, "out.csv"))
	assert.Error(t, err)
}
