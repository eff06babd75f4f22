package normalize

import (
	"errors"

	"github.com/pivolan/bandwidth_insights/domain/models"
)

var (
	errEmpty      = errors.New("empty value")
	errNotNumeric = errors.New("not a number")
	errNegative   = errors.New("negative bandwidth")
)

// Result is the outcome of normalizing one raw row.
type Result struct {
	Record   models.ClientRecord
	Conflict bool
	Unknown  []models.UnknownCategoryError
}

// Record normalizes one raw row. A malformed bandwidth yields a DataQualityError
// and the row must not be aggregated.
func Record(raw models.RawRecord) (Result, error) {
	bandwidth, err := Bandwidth(raw.Bandwidth)
	if err != nil {
		return Result{}, &models.DataQualityError{
			Row:    raw.Row,
			Column: models.ColumnBandwidth,
			Value:  raw.Bandwidth,
			Reason: err.Error(),
		}
	}

	clientType, conflict := ResolveClientType(raw.ClientType, raw.Client)
	status := Status(raw.Status)

	res := Result{
		Record: models.ClientRecord{
			Serial:     cleanText(raw.Serial),
			Company:    cleanText(raw.Company),
			Branch:     cleanText(raw.Branch),
			State:      cleanText(raw.State),
			Region:     cleanText(raw.Region),
			Network:    cleanText(raw.Network),
			Bandwidth:  bandwidth,
			Status:     status,
			ClientType: clientType,
			Row:        raw.Row,
		},
		Conflict: conflict,
	}
	if clientType == models.ClientUnknown {
		value := raw.ClientType
		if value == "" {
			value = raw.Client
		}
		res.Unknown = append(res.Unknown, models.UnknownCategoryError{Row: raw.Row, Field: "client type", Value: value})
	}
	if status == models.StatusUnknown {
		res.Unknown = append(res.Unknown, models.UnknownCategoryError{Row: raw.Row, Field: "status", Value: raw.Status})
	}
	return res, nil
}

// Renormalize runs an already normalized record through the label rules again.
func Renormalize(r models.ClientRecord) models.ClientRecord {
	r.ClientType = ClientType(string(r.ClientType))
	r.Status = Status(string(r.Status))
	r.Company = cleanText(r.Company)
	r.Branch = cleanText(r.Branch)
	r.State = cleanText(r.State)
	r.Region = cleanText(r.Region)
	r.Network = cleanText(r.Network)
	return r
}
