package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/logging"
	"github.com/pivolan/bandwidth_insights/normalize"
	"go.uber.org/zap"
)

const SEPARATOR = ','

// Dataset is a loaded and normalized client table with its load report.
type Dataset struct {
	Columns []string
	Records []models.ClientRecord
	Report  models.LoadReport
}

type Loader struct {
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{log: log}
}

// LoadFile reads a merged client file. The file is closed on every path.
func (l *Loader) LoadFile(filePath string) (*Dataset, error) {
	src, err := openSource(filePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer src.Close()

	ds, err := l.Read(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filePath, err)
	}
	l.log.Infow("dataset loaded",
		"file", filePath,
		"rows", ds.Report.RowsRead,
		"accepted", ds.Report.RowsAccepted,
		"excluded", ds.Report.ExcludedCount(),
		"conflicts", ds.Report.Conflicts,
	)
	return ds, nil
}

// Read parses CSV from r. Structural problems abort the load; rows with a
// malformed bandwidth are excluded and listed in the report.
func (l *Loader) Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = SEPARATOR
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, models.ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	headers := ResolveHeaders(first)
	if err := CheckRequired(headers); err != nil {
		return nil, err
	}

	rows := &rowReader{r: cr, width: len(headers), row: 1}
	dec, err := csvutil.NewDecoder(rows, headers...)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}

	ds := &Dataset{Columns: headers, Records: []models.ClientRecord{}}
	for {
		var raw models.RawRecord
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rows.row, err)
		}
		raw.Row = rows.row
		ds.Report.RowsRead++

		res, err := normalize.Record(raw)
		if err != nil {
			var dqe *models.DataQualityError
			if !errors.As(err, &dqe) {
				return nil, err
			}
			l.log.Debugw("row excluded", "row", dqe.Row, "column", dqe.Column, "value", dqe.Value, "reason", dqe.Reason)
			ds.Report.Exclusions = append(ds.Report.Exclusions, *dqe)
			continue
		}
		if res.Conflict {
			ds.Report.Conflicts++
			l.log.Debugw("client type columns disagree", "row", raw.Row, "CLIENT", raw.Client, "Client Type", raw.ClientType)
		}
		for _, u := range res.Unknown {
			if u.Field == "status" {
				ds.Report.UnknownStatus = append(ds.Report.UnknownStatus, u)
			} else {
				ds.Report.UnknownClients = append(ds.Report.UnknownClients, u)
			}
		}
		ds.Records = append(ds.Records, res.Record)
	}
	ds.Report.RowsAccepted = len(ds.Records)
	ds.Report.BlankRows = rows.blank
	return ds, nil
}

// rowReader feeds csvutil records padded to the header width and skips rows
// whose cells are all blank. row counts records from 1, the header being row 1.
type rowReader struct {
	r     *csv.Reader
	width int
	row   int
	blank int
}

func (rr *rowReader) Read() ([]string, error) {
	for {
		record, err := rr.r.Read()
		if err != nil {
			return nil, err
		}
		rr.row++
		if isBlank(record) {
			rr.blank++
			continue
		}
		switch {
		case len(record) < rr.width:
			record = append(record, make([]string, rr.width-len(record))...)
		case len(record) > rr.width:
			record = record[:rr.width]
		}
		return record, nil
	}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
