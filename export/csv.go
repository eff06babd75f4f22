package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/jszwec/csvutil"
	"github.com/pivolan/bandwidth_insights/domain/models"
)

// WriteCSV writes records with the canonical header. The header is written even
// when there are no records.
func WriteCSV(w io.Writer, records []models.ClientRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.Register(formatFloat)

	if err := enc.EncodeHeader(models.ClientRecord{}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if len(records) > 0 {
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns records as CSV bytes.
func CSV(records []models.ClientRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatFloat keeps bandwidth in plain decimal notation (100, 2.5) instead of
// the exponent form csvutil uses by default.
func formatFloat(f float64) ([]byte, error) {
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}
