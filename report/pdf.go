package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/plot"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 7.0
)

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// PDF renders the snapshot with its charts.
func PDF(snap models.Snapshot) ([]byte, error) {
	charts, err := plot.Charts(snap)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WritePDF(&buf, snap, charts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF writes the insights report: headline figures, groupings, the top
// subscriptions and one page region per chart.
func WritePDF(w io.Writer, snap models.Snapshot, charts []plot.Chart) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	title := snap.Title
	if title == "" {
		title = "Bandwidth Insights"
	}
	pdf.SetTitle(title, true)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 16)
		pdf.CellFormat(0, 10, pw.tr(title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	})
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	m := snap.Metrics
	pw.paragraph(fmt.Sprintf("Generated %s. Filter: %s.", snap.GeneratedAt.Format("2006-01-02 15:04"), snap.Filter))
	if m.RecordCount == 0 {
		pw.paragraph("No records match the selected filter.")
	}

	pw.section("Overview")
	pw.keyValues([][2]string{
		{"Total bandwidth", Mbps(m.TotalBandwidth)},
		{"Customers", fmt.Sprint(m.RecordCount)},
		{"Active customers", fmt.Sprint(m.ActiveCount)},
		{"Inactive customers", fmt.Sprint(m.InactiveCount)},
		{"Unknown status", fmt.Sprint(m.UnknownStatusCount)},
		{"Average bandwidth per client", Mbps(round2(m.AverageBandwidth))},
		{"Rows excluded (malformed bandwidth)", fmt.Sprint(snap.Excluded)},
		{"Client type conflicts", fmt.Sprint(snap.Conflicts)},
	})

	pw.section("Total Bandwidth allocated by Network Type")
	pw.breakdown(m.BandwidthByNetwork)

	pw.section("Corporate vs Retail")
	pw.breakdown(m.BandwidthByClient)

	pw.section("Total Bandwidth consumed per Region")
	pw.breakdown(m.BandwidthByRegion)

	pw.section(fmt.Sprintf("Top %d States with Highest Bandwidth Allocation", len(snap.TopStates)))
	pw.breakdown(snap.TopStates)

	pw.section("Active vs. Inactive Bandwidth Consumption")
	pw.keyValues([][2]string{
		{"Active customers", Mbps(m.ActiveBandwidth)},
		{"Inactive customers", Mbps(m.InactiveBandwidth)},
	})

	if len(snap.TopRecords) > 0 {
		pw.section(fmt.Sprintf("Top %d Subscriptions", len(snap.TopRecords)))
		pw.recordTable(snap.TopRecords)
	}

	for _, c := range charts {
		pw.image(c)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func (pw *pdfWriter) section(title string) {
	pw.pdf.Ln(2)
	pw.pdf.SetFont(fontFamily, "B", 13)
	pw.pdf.CellFormat(0, 9, pw.tr(title), "", 1, "L", false, 0, "")
}

func (pw *pdfWriter) paragraph(s string) {
	pw.pdf.SetFont(fontFamily, "", 11)
	pw.pdf.MultiCell(0, lineHeight, pw.tr(s), "", "L", false)
}

func (pw *pdfWriter) keyValues(rows [][2]string) {
	pw.pdf.SetFont(fontFamily, "", 11)
	for _, kv := range rows {
		pw.pdf.CellFormat(90, lineHeight, pw.tr(kv[0]), "", 0, "L", false, 0, "")
		pw.pdf.CellFormat(0, lineHeight, pw.tr(kv[1]), "", 1, "L", false, 0, "")
	}
}

func (pw *pdfWriter) breakdown(b models.Breakdown) {
	if len(b) == 0 {
		pw.paragraph("No data.")
		return
	}
	pw.pdf.SetFont(fontFamily, "B", 10)
	pw.pdf.SetFillColor(230, 230, 230)
	pw.pdf.CellFormat(90, lineHeight, "Group", "1", 0, "L", true, 0, "")
	pw.pdf.CellFormat(50, lineHeight, "Bandwidth", "1", 0, "R", true, 0, "")
	pw.pdf.CellFormat(30, lineHeight, "Customers", "1", 1, "R", true, 0, "")
	pw.pdf.SetFont(fontFamily, "", 10)
	for _, g := range b {
		pw.pdf.CellFormat(90, lineHeight, pw.tr(g.Key), "1", 0, "L", false, 0, "")
		pw.pdf.CellFormat(50, lineHeight, Mbps(g.Bandwidth), "1", 0, "R", false, 0, "")
		pw.pdf.CellFormat(30, lineHeight, fmt.Sprint(g.Count), "1", 1, "R", false, 0, "")
	}
}

func (pw *pdfWriter) recordTable(records []models.ClientRecord) {
	widths := []float64{60, 45, 30, 25, 30}
	pw.pdf.SetFont(fontFamily, "B", 10)
	pw.pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Company", "Branch", "State", "Client", "Bandwidth"} {
		pw.pdf.CellFormat(widths[i], lineHeight, h, "1", 0, "L", true, 0, "")
	}
	pw.pdf.Ln(-1)
	pw.pdf.SetFont(fontFamily, "", 9)
	for _, r := range records {
		cells := []string{r.Company, r.Branch, r.State, string(r.ClientType), Mbps(r.Bandwidth)}
		for i, c := range cells {
			pw.pdf.CellFormat(widths[i], lineHeight, pw.tr(fit(c, 32)), "1", 0, "L", false, 0, "")
		}
		pw.pdf.Ln(-1)
	}
}

// image places a chart scaled to the page width, starting a new page when it
// does not fit below the cursor.
func (pw *pdfWriter) image(c plot.Chart) {
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	info := pw.pdf.RegisterImageOptionsReader(c.Name, opts, bytes.NewReader(c.PNG))
	if info == nil || info.Width() == 0 {
		return
	}

	pageW, pageH := pw.pdf.GetPageSize()
	left, _, right, bottom := pw.pdf.GetMargins()
	width := pageW - left - right
	height := width * info.Height() / info.Width()
	if limit := pageH / 2; height > limit {
		width = width * limit / height
		height = limit
	}
	if pw.pdf.GetY()+height+12 > pageH-bottom {
		pw.pdf.AddPage()
	}
	pw.section(c.Title)
	pw.pdf.ImageOptions(c.Name, left, pw.pdf.GetY(), width, height, true, opts, 0, "")
}

func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
