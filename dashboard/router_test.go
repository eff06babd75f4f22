package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const dataCSV = `COMPANY NAME,BRANCH/LOCATION,STATE,REGION,WAN/INTERNET CLIENT,BANDWIDTH SUBSCRIPTION (Mbps),CUSTOMER STATUS,CLIENT,Client Type
Acme Ltd,Ikeja,Lagos,South West,WAN,100,Active,Corporate,
Beta Stores,Wuse,FCT,North Central,Internet,50,Disconnected,Retail,
Gamma Oil,Port Harcourt,Rivers,South South,WAN,N/A,Active,Corporate,
Delta,Ibadan,Oyo,South West,Internet,30,Connected,,Retail
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte(dataCSV), 0644))
	sess, err := session.Open(path, nil)
	require.NoError(t, err)
	return NewRouter(sess, Options{TopN: 5}), path
}

func get(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	w := get(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name      string
		url       string
		total     float64
		count     int
		active    int
		inactive  int
		byRegions []string
	}{
		{"No filter", "/api/metrics", 180, 3, 2, 1, []string{"South West", "North Central"}},
		{"Region", "/api/metrics?region=South+West", 130, 2, 2, 0, []string{"South West"}},
		{"Repeated and comma list", "/api/metrics?state=lagos&state=FCT", 150, 2, 1, 1, []string{"South West", "North Central"}},
		{"Combined", "/api/metrics?region=South+West&client_type=Retail", 30, 1, 1, 0, []string{"South West"}},
		{"No match", "/api/metrics?state=Kano", 0, 0, 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.url)
			require.Equal(t, http.StatusOK, w.Code)

			var snap models.Snapshot
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
			assert.Equal(t, tt.total, snap.Metrics.TotalBandwidth)
			assert.Equal(t, tt.count, snap.Metrics.RecordCount)
			assert.Equal(t, tt.active, snap.Metrics.ActiveCount)
			assert.Equal(t, tt.inactive, snap.Metrics.InactiveCount)
			assert.Equal(t, tt.byRegions, snap.Metrics.BandwidthByRegion.Keys())
			assert.Equal(t, 1, snap.Excluded)
		})
	}
}

func TestQueryList(t *testing.T) {
	router, _ := newTestRouter(t)
	w := get(t, router, "/api/records?status=active,%20inactive&region=South+West")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Filter  string
		Total   int
		Records []models.ClientRecord
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "region=South West; status=active,inactive", body.Filter)
	assert.Equal(t, 2, body.Total)
}

func TestOptions(t *testing.T) {
	router, _ := newTestRouter(t)
	w := get(t, router, "/api/options?region=South+West")
	require.Equal(t, http.StatusOK, w.Code)

	var o struct {
		Regions     []string
		States      []string
		Statuses    []string
		ClientTypes []string
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	assert.Equal(t, []string{"North Central", "South West"}, o.Regions)
	assert.Equal(t, []string{"Lagos", "Oyo"}, o.States)
	assert.Equal(t, []string{"Active", "Inactive"}, o.Statuses)
}

func TestLoadReportEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := get(t, router, "/api/report")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted":3`)
	assert.Contains(t, w.Body.String(), `"N/A"`)
}

func TestPage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Bandwidth Insights")
	assert.Contains(t, body, "Customers by Region")
	assert.Contains(t, body, "180 Mbps")
	assert.NotContains(t, body, "No data matches")

	w = get(t, router, "/?state=Kano")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No data matches")
}

func TestExports(t *testing.T) {
	router, _ := newTestRouter(t)

	w := get(t, router, "/export/filtered.csv?region=North+Central")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filtered_clients.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Beta Stores")

	w = get(t, router, "/export/full.csv?region=North+Central")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, strings.Split(strings.TrimSpace(w.Body.String()), "\n"), 4, "full export ignores the filter")

	w = get(t, router, "/export/report.pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mimePDF, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = get(t, router, "/export/workbook.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	x, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer x.Close()
	assert.NotEmpty(t, x.GetSheetList())
}

func TestReload(t *testing.T) {
	router, path := newTestRouter(t)

	require.NoError(t, os.WriteFile(path, []byte(dataCSV+"Echo,Kano,Kano,North West,WAN,20,Active,Retail,\n"), 0644))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accepted":4`)

	w = get(t, router, "/api/metrics?state=Kano")
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, 20.0, snap.Metrics.TotalBandwidth)

	require.NoError(t, os.WriteFile(path, []byte("COMPANY NAME\nAcme\n"), 0644))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reload", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
