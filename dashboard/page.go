package dashboard

import (
	"bytes"
	"html/template"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/report"
)

var bodyRE = regexp.MustCompile(`<body[^>]*>`)

var headerTmpl = template.Must(template.New("header").Parse(`
<div style="font-family: sans-serif; margin: 16px">
  <h1>{{.Title}}</h1>
  <form method="get" action="/">
    {{range .Selects}}
    <label>{{.Label}}
      <select name="{{.Name}}" multiple size="4">
        {{range .Values}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
      </select>
    </label>
    {{end}}
    <button type="submit">Apply</button>
    <a href="/">Reset</a>
  </form>
  <p>Filter: {{.Filter}}</p>
  {{if .Empty}}
  <p style="color: #b00"><strong>No data matches the selected filters.</strong></p>
  {{else}}
  <table cellpadding="6">
    <tr>
      <td><strong>Total bandwidth</strong><br>{{.Total}}</td>
      <td><strong>Active customers</strong><br>{{.Active}}</td>
      <td><strong>Inactive customers</strong><br>{{.Inactive}}</td>
      <td><strong>Customers</strong><br>{{.Count}}</td>
      <td><strong>Rows excluded</strong><br>{{.Excluded}}</td>
    </tr>
  </table>
  {{end}}
  <p>
    <a href="/export/filtered.csv?{{.Query}}">Filtered CSV</a> |
    <a href="/export/full.csv">Full CSV</a> |
    <a href="/export/workbook.xlsx?{{.Query}}">Workbook</a> |
    <a href="/export/report.pdf?{{.Query}}">PDF report</a>
  </p>
</div>
`))

type option struct {
	Value    string
	Selected bool
}

type selectBox struct {
	Label  string
	Name   string
	Values []option
}

type header struct {
	Title    string
	Filter   string
	Query    template.URL
	Selects  []selectBox
	Empty    bool
	Total    string
	Active   int
	Inactive int
	Count    int
	Excluded int
}

func newSelect(label, name string, values, selected []string) selectBox {
	chosen := map[string]bool{}
	for _, s := range selected {
		chosen[s] = true
	}
	box := selectBox{Label: label, Name: name}
	for _, v := range values {
		box.Values = append(box.Values, option{Value: v, Selected: chosen[v]})
	}
	return box
}

func (r *Router) page(c *gin.Context) {
	f := filterFromQuery(c)
	v := r.sess.Apply(f)
	snap := r.sess.Snapshot(v, r.title, r.topN)
	o := r.sess.Options(f.Regions)

	h := header{
		Title:  r.title,
		Filter: snap.Filter,
		Query:  template.URL(c.Request.URL.RawQuery),
		Selects: []selectBox{
			newSelect("Region", "region", o.Regions, f.Regions),
			newSelect("State", "state", o.States, f.States),
			newSelect("Status", "status", o.Statuses, f.Statuses),
			newSelect("Client type", "client_type", o.ClientTypes, f.ClientTypes),
		},
		Empty:    len(v.Records) == 0,
		Total:    report.Mbps(snap.Metrics.TotalBandwidth),
		Active:   snap.Metrics.ActiveCount,
		Inactive: snap.Metrics.InactiveCount,
		Count:    snap.Metrics.RecordCount,
		Excluded: snap.Excluded,
	}

	html, err := renderPage(h, snap)
	if err != nil {
		r.log.Errorw("render dashboard", "error", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// renderPage renders the echarts page and places the filter header at the top
// of its body.
func renderPage(h header, snap models.Snapshot) ([]byte, error) {
	page := components.NewPage()
	page.PageTitle = h.Title
	if !h.Empty {
		page.AddCharts(
			breakdownBar("Customers by Region", "Customers", snap.Metrics.BandwidthByRegion, true),
			breakdownBar("Bandwidth by Region", "Mbps", snap.Metrics.BandwidthByRegion, false),
			breakdownBar("Top 10 States by Customers", "Customers", snap.StatesByCount, true),
			statusPie(snap.Metrics),
			regionClientBar(snap.Metrics.RegionByClient),
		)
	}

	var chartsHTML bytes.Buffer
	if err := page.Render(&chartsHTML); err != nil {
		return nil, err
	}
	var head bytes.Buffer
	if err := headerTmpl.Execute(&head, h); err != nil {
		return nil, err
	}

	out := chartsHTML.Bytes()
	loc := bodyRE.FindIndex(out)
	if loc == nil {
		return append(head.Bytes(), out...), nil
	}
	result := make([]byte, 0, len(out)+head.Len())
	result = append(result, out[:loc[1]]...)
	result = append(result, head.Bytes()...)
	result = append(result, out[loc[1]:]...)
	return result, nil
}

func breakdownBar(title, series string, b models.Breakdown, byCount bool) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
	)
	data := make([]opts.BarData, 0, len(b))
	for _, g := range b {
		if byCount {
			data = append(data, opts.BarData{Name: g.Key, Value: g.Count})
		} else {
			data = append(data, opts.BarData{Name: g.Key, Value: g.Bandwidth})
		}
	}
	bar.SetXAxis(b.Keys()).AddSeries(series, data)
	return bar
}

func statusPie(m models.AggregateMetrics) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Customer Status"}))
	data := []opts.PieData{
		{Name: string(models.StatusActive), Value: m.ActiveCount},
		{Name: string(models.StatusInactive), Value: m.InactiveCount},
	}
	if m.UnknownStatusCount > 0 {
		data = append(data, opts.PieData{Name: string(models.StatusUnknown), Value: m.UnknownStatusCount})
	}
	pie.AddSeries("Status", data)
	return pie
}

// regionClientBar draws one bar series per client type across regions.
func regionClientBar(cells []models.RegionClientTotal) *charts.Bar {
	var regions []string
	seen := map[string]bool{}
	byType := map[models.ClientType]map[string]float64{}
	for _, cell := range cells {
		if !seen[cell.Region] {
			seen[cell.Region] = true
			regions = append(regions, cell.Region)
		}
		if byType[cell.ClientType] == nil {
			byType[cell.ClientType] = map[string]float64{}
		}
		byType[cell.ClientType][cell.Region] += cell.Bandwidth
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Bandwidth by Region and Client Type"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30}}),
	)
	bar.SetXAxis(regions)
	for _, t := range []models.ClientType{models.ClientCorporate, models.ClientRetail, models.ClientUnknown} {
		values, ok := byType[t]
		if !ok {
			continue
		}
		data := make([]opts.BarData, 0, len(regions))
		for _, region := range regions {
			data = append(data, opts.BarData{Value: values[region]})
		}
		bar.AddSeries(string(t), data)
	}
	return bar
}
