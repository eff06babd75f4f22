package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/session"
)

const (
	FilteredFile = "filtered_clients.csv"
	FullFile     = "cleaned_clients.csv"
	WorkbookFile = "bandwidth_insights.xlsx"
)

// Filtered returns the records matching f as CSV.
func Filtered(s *session.Session, f models.Filter) ([]byte, error) {
	return CSV(s.Apply(f).Records)
}

// Full returns the whole normalized table as CSV, regardless of any filter.
func Full(s *session.Session) ([]byte, error) {
	return CSV(s.Records())
}

// Metrics returns the snapshot the PDF report is rendered from.
func Metrics(s *session.Session, f models.Filter, title string, topN int) models.Snapshot {
	return s.Snapshot(s.Apply(f), title, topN)
}

// Workbook returns the filtered records and their metrics as XLSX.
func Workbook(s *session.Session, f models.Filter, title string, topN int) ([]byte, error) {
	v := s.Apply(f)
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, s.Snapshot(v, title, topN), v.Records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFiles writes the filtered CSV, the full CSV and the workbook into dir and
// returns their paths.
func WriteFiles(dir string, s *session.Session, f models.Filter, title string, topN int) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	filtered, err := Filtered(s, f)
	if err != nil {
		return nil, err
	}
	full, err := Full(s)
	if err != nil {
		return nil, err
	}
	workbook, err := Workbook(s, f, title, topN)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{FilteredFile, filtered},
		{FullFile, full},
		{WorkbookFile, workbook},
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.name)
		if err := os.WriteFile(path, file.data, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
