package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pivolan/bandwidth_insights/domain/models"
)

// Mbps formats a bandwidth value without trailing zeros.
func Mbps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " Mbps"
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetTitle(title)
	t.SetStyle(table.StyleLight)
	return t
}

// SummaryTable renders the headline metrics of a snapshot.
func SummaryTable(snap models.Snapshot) string {
	m := snap.Metrics
	t := newTable("Summary (" + snap.Filter + ")")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total bandwidth", Mbps(m.TotalBandwidth)},
		{"Customers", m.RecordCount},
		{"Active", m.ActiveCount},
		{"Inactive", m.InactiveCount},
		{"Unknown status", m.UnknownStatusCount},
		{"Corporate", m.CorporateCount},
		{"Retail", m.RetailCount},
		{"Average bandwidth", Mbps(round2(m.AverageBandwidth))},
		{"Median bandwidth", Mbps(m.Distribution.Median)},
		{"Rows excluded", snap.Excluded},
		{"Client type conflicts", snap.Conflicts},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	return t.Render()
}

// BreakdownTable renders one grouping with bandwidth and customer counts.
func BreakdownTable(title, label string, b models.Breakdown) string {
	t := newTable(title)
	t.AppendHeader(table.Row{label, "Bandwidth", "Customers"})
	for _, g := range b {
		t.AppendRow(table.Row{g.Key, Mbps(g.Bandwidth), g.Count})
	}
	t.AppendFooter(table.Row{"Total", Mbps(b.TotalBandwidth()), b.TotalCount()})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return t.Render()
}

func TopRecordsTable(records []models.ClientRecord) string {
	t := newTable(fmt.Sprintf("Top %d subscriptions", len(records)))
	t.AppendHeader(table.Row{"#", "Company", "Branch", "State", "Client", "Bandwidth"})
	for i, r := range records {
		t.AppendRow(table.Row{i + 1, r.Company, r.Branch, r.State, string(r.ClientType), Mbps(r.Bandwidth)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 6, Align: text.AlignRight}})
	return t.Render()
}

// ExclusionsTable lists rows left out of the metrics, at most limit of them.
func ExclusionsTable(report models.LoadReport, limit int) string {
	t := newTable(fmt.Sprintf("Excluded rows (%d)", report.ExcludedCount()))
	t.AppendHeader(table.Row{"Row", "Column", "Value", "Reason"})
	for i, e := range report.Exclusions {
		if limit >= 0 && i >= limit {
			t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d more", report.ExcludedCount()-limit)})
			break
		}
		t.AppendRow(table.Row{e.Row, e.Column, e.Value, e.Reason})
	}
	return t.Render()
}

// Text is the plain-text form of the report used by the CLI and the bot.
func Text(snap models.Snapshot) string {
	m := snap.Metrics
	parts := []string{
		SummaryTable(snap),
		BreakdownTable("Bandwidth by region", "Region", m.BandwidthByRegion),
		BreakdownTable("Top states by bandwidth", "State", snap.TopStates),
		BreakdownTable("Bandwidth by network type", "Network", m.BandwidthByNetwork),
		BreakdownTable("Bandwidth by client type", "Client", m.BandwidthByClient),
	}
	if len(snap.TopRecords) > 0 {
		parts = append(parts,
			TopRecordsTable(snap.TopRecords),
			BreakdownTable("Top companies", "Company", snap.TopCompanies),
			BreakdownTable("Top branches", "Branch", snap.TopBranches),
		)
	}
	return strings.Join(parts, "\n\n")
}

func round2(v float64) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return f
}
