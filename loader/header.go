package loader

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/go_utils"
)

var nonAlnumRE = regexp.MustCompile("[^a-z0-9]+")

// headerAliases maps a header key (see headerKey) to the canonical column name.
var headerAliases = map[string]string{
	"s_n":                         models.ColumnSerial,
	"sn":                          models.ColumnSerial,
	"serial_no":                   models.ColumnSerial,
	"company_name":                models.ColumnCompany,
	"company":                     models.ColumnCompany,
	"name_of_company":             models.ColumnCompany,
	"customer_name":               models.ColumnCompany,
	"branch_location":             models.ColumnBranch,
	"branch":                      models.ColumnBranch,
	"location":                    models.ColumnBranch,
	"state":                       models.ColumnState,
	"region":                      models.ColumnRegion,
	"geopolitical_zone":           models.ColumnRegion,
	"wan_internet_client":         models.ColumnNetwork,
	"wan_internet":                models.ColumnNetwork,
	"network_type":                models.ColumnNetwork,
	"bandwidth_subscription_mbps": models.ColumnBandwidth,
	"bandwidth_subscription":      models.ColumnBandwidth,
	"bandwidth_mbps":              models.ColumnBandwidth,
	"bandwidth":                   models.ColumnBandwidth,
	"customer_status":             models.ColumnStatus,
	"status":                      models.ColumnStatus,
	"client":                      models.ColumnClient,
	"client_type":                 models.ColumnClientType,
	"type_of_client":              models.ColumnClientType,
}

var requiredColumns = []string{
	models.ColumnCompany,
	models.ColumnBranch,
	models.ColumnState,
	models.ColumnRegion,
	models.ColumnNetwork,
	models.ColumnBandwidth,
	models.ColumnStatus,
}

// headerKey lower-cases a header and joins its words with underscores.
func headerKey(header string) string {
	key := nonAlnumRE.ReplaceAllString(strings.ToLower(header), "_")
	return strings.Trim(key, "_")
}

// ResolveHeaders maps raw header cells onto canonical column names. Unknown
// headers are kept as they are; repeated names get a numeric suffix so only the
// first occurrence feeds a field.
func ResolveHeaders(raw []string) []string {
	resolved := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if canonical, ok := headerAliases[headerKey(h)]; ok {
			resolved[i] = canonical
			continue
		}
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		resolved[i] = h
	}
	return ValidateHeaders(resolved)
}

// ValidateHeaders suffixes duplicate names with _1, _2, ...
func ValidateHeaders(headers []string) []string {
	seen := make(map[string]int)
	result := make([]string, len(headers))

	for i, header := range headers {
		original := header
		counter := 1
		for {
			if _, exists := seen[header]; !exists {
				seen[header] = 1
				break
			}
			header = fmt.Sprintf("%s_%d", original, counter)
			counter++
		}
		result[i] = header
	}

	return result
}

// CheckRequired returns a MissingColumnError for the first required column that
// is absent. One of the two legacy client columns must be present.
func CheckRequired(headers []string) error {
	for _, column := range requiredColumns {
		if !go_utils.InArray(column, headers) {
			return &models.MissingColumnError{Column: column}
		}
	}
	if !go_utils.InArray(models.ColumnClient, headers) && !go_utils.InArray(models.ColumnClientType, headers) {
		return &models.MissingColumnError{Column: models.ColumnClient}
	}
	return nil
}
