package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pivolan/bandwidth_insights/domain/models"
)

var (
	nonWordRE = regexp.MustCompile(`[^a-z0-9]+`)
	mbpsRE    = regexp.MustCompile(`(?i)\s*mbps$`)

	// a comma is only accepted as a thousands separator: 1,024 or 12,500.75
	thousandsRE = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

var clientSynonyms = map[string]models.ClientType{
	"corporate":            models.ClientCorporate,
	"corp":                 models.ClientCorporate,
	"corporate client":     models.ClientCorporate,
	"corporate clients":    models.ClientCorporate,
	"corporate and retail": models.ClientCorporate,
	"enterprise":           models.ClientCorporate,
	"business":             models.ClientCorporate,
	"retail":               models.ClientRetail,
	"retail client":        models.ClientRetail,
	"retail clients":       models.ClientRetail,
	"individual":           models.ClientRetail,
	"consumer":             models.ClientRetail,
	"residential":          models.ClientRetail,
}

var statusSynonyms = map[string]models.CustomerStatus{
	"active":       models.StatusActive,
	"connected":    models.StatusActive,
	"live":         models.StatusActive,
	"activated":    models.StatusActive,
	"inactive":     models.StatusInactive,
	"not active":   models.StatusInactive,
	"disconnected": models.StatusInactive,
	"diconnected":  models.StatusInactive,
	"deactivated":  models.StatusInactive,
	"terminated":   models.StatusInactive,
	"suspended":    models.StatusInactive,
	"churned":      models.StatusInactive,
}

// Fold reduces a label to its lookup key: ASCII, lower case, words separated by single spaces.
func Fold(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	s = nonWordRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ClientType maps a raw client label to Corporate, Retail or Unknown.
func ClientType(raw string) models.ClientType {
	if t, ok := clientSynonyms[Fold(raw)]; ok {
		return t
	}
	return models.ClientUnknown
}

// Status maps a raw status label to Active, Inactive or Unknown.
func Status(raw string) models.CustomerStatus {
	if s, ok := statusSynonyms[Fold(raw)]; ok {
		return s
	}
	return models.StatusUnknown
}

// ResolveClientType reconciles the legacy "Client Type" and "CLIENT" columns.
// "Client Type" wins when it names a known type, otherwise "CLIENT" is used.
// conflict is true when both are known and disagree.
func ResolveClientType(clientType, client string) (resolved models.ClientType, conflict bool) {
	primary := ClientType(clientType)
	fallback := ClientType(client)
	if primary != models.ClientUnknown {
		return primary, fallback != models.ClientUnknown && fallback != primary
	}
	return fallback, false
}

// Bandwidth parses a subscription value in Mbps. Thousands separators and
// a trailing "Mbps" unit are accepted.
func Bandwidth(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = mbpsRE.ReplaceAllString(s, "")
	if s == "" {
		return 0, errEmpty
	}
	if strings.Contains(s, ",") {
		if !thousandsRE.MatchString(s) {
			return 0, errNotNumeric
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotNumeric
	}
	if v < 0 {
		return 0, errNegative
	}
	if v == 0 {
		// drops the sign of -0
		v = 0
	}
	return v, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
