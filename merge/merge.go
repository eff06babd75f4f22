package merge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/xuri/excelize/v2"
)

const DefaultSheet = "Corporate and Retail Clients"

var (
	ErrHeaderRows = errors.New("header rows not found")
	ErrEmptyTable = errors.New("one or both tables are empty")
)

// Table is a header with its data rows, every row padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// Split finds the two tables of a sheet. Each table starts at a row whose first
// cell is marker; the first header row names the columns of both. Blank rows
// are dropped, and header rows after the second are skipped.
func Split(rows [][]string, marker string) (Table, Table, error) {
	var headers []int
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == marker {
			headers = append(headers, i)
		}
	}
	if len(headers) < 2 {
		return Table{}, Table{}, fmt.Errorf("%w: need 2 rows starting with %q, found %d", ErrHeaderRows, marker, len(headers))
	}

	header := trimTrailing(rows[headers[0]])
	first := Table{Header: header, Rows: clean(rows[headers[0]+1:headers[1]], len(header), marker)}
	second := Table{Header: header, Rows: clean(rows[headers[1]+1:], len(header), marker)}
	if len(first.Rows) == 0 || len(second.Rows) == 0 {
		return Table{}, Table{}, ErrEmptyTable
	}
	return first, second, nil
}

// Merge concatenates both tables of a sheet and renumbers the S/N column from 1.
func Merge(rows [][]string, marker string) (Table, error) {
	first, second, err := Split(rows, marker)
	if err != nil {
		return Table{}, err
	}
	merged := Table{Header: first.Header, Rows: append(first.Rows, second.Rows...)}

	serial := -1
	for i, h := range merged.Header {
		if strings.TrimSpace(h) == models.ColumnSerial {
			serial = i
			break
		}
	}
	if serial >= 0 {
		for i := range merged.Rows {
			merged.Rows[i][serial] = strconv.Itoa(i + 1)
		}
	}
	return merged, nil
}

// ReadSheet returns the cell values of sheet. An empty sheet name reads the
// first sheet of the workbook.
func ReadSheet(path, sheet string) ([][]string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()

	if sheet == "" {
		sheet = x.GetSheetName(0)
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// File merges the two tables of an XLSX sheet into a CSV file at out.
func File(xlsxPath, sheet, out string) (Table, error) {
	rows, err := ReadSheet(xlsxPath, sheet)
	if err != nil {
		return Table{}, err
	}
	merged, err := Merge(rows, models.ColumnSerial)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", xlsxPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return Table{}, err
	}
	f, err := os.Create(out)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	if err := merged.WriteCSV(f); err != nil {
		return Table{}, err
	}
	return merged, nil
}

func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func clean(rows [][]string, width int, marker string) [][]string {
	out := [][]string{}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if strings.TrimSpace(row[0]) == marker {
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out = append(out, padded)
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimTrailing(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	for i, v := range row[:end] {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
