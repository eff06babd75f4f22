package dashboard

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pivolan/bandwidth_insights/export"
	"github.com/pivolan/bandwidth_insights/report"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (r *Router) metrics(c *gin.Context) {
	f := filterFromQuery(c)
	c.JSON(http.StatusOK, r.sess.Snapshot(r.sess.Apply(f), r.title, r.topN))
}

func (r *Router) options(c *gin.Context) {
	c.JSON(http.StatusOK, r.sess.Options(queryList(c, "region")))
}

func (r *Router) records(c *gin.Context) {
	v := r.sess.Apply(filterFromQuery(c))
	c.JSON(http.StatusOK, gin.H{
		"filter":  v.Filter.String(),
		"total":   len(v.Records),
		"records": v.Records,
	})
}

func (r *Router) loadReport(c *gin.Context) {
	rep := r.sess.Report()
	c.JSON(http.StatusOK, gin.H{
		"source":    r.sess.Source(),
		"loaded_at": r.sess.LoadedAt(),
		"rows":      rep.RowsRead,
		"accepted":  rep.RowsAccepted,
		"blank":     rep.BlankRows,
		"excluded":  rep.Exclusions,
		"conflicts": rep.Conflicts,
		"unknown":   len(rep.UnknownClients) + len(rep.UnknownStatus),
	})
}

func (r *Router) exportFiltered(c *gin.Context) {
	data, err := export.Filtered(r.sess, filterFromQuery(c))
	r.attachment(c, export.FilteredFile, mimeCSV, data, err)
}

func (r *Router) exportFull(c *gin.Context) {
	data, err := export.Full(r.sess)
	r.attachment(c, export.FullFile, mimeCSV, data, err)
}

func (r *Router) exportPDF(c *gin.Context) {
	snap := export.Metrics(r.sess, filterFromQuery(c), r.title, r.topN)
	data, err := report.PDF(snap)
	r.attachment(c, "bandwidth_insights.pdf", mimePDF, data, err)
}

func (r *Router) exportWorkbook(c *gin.Context) {
	data, err := export.Workbook(r.sess, filterFromQuery(c), r.title, r.topN)
	r.attachment(c, export.WorkbookFile, mimeXLSX, data, err)
}

func (r *Router) attachment(c *gin.Context, name, contentType string, data []byte, err error) {
	if err != nil {
		r.log.Errorw("export failed", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, contentType, data)
}

func (r *Router) reload(c *gin.Context) {
	if err := r.sess.Reload(); err != nil {
		r.log.Errorw("reload failed", "source", r.sess.Source(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	rep := r.sess.Report()
	r.log.Infow("dataset reloaded", "source", r.sess.Source(), "accepted", rep.RowsAccepted)
	c.JSON(http.StatusOK, gin.H{
		"loaded_at": r.sess.LoadedAt(),
		"accepted":  rep.RowsAccepted,
		"excluded":  rep.ExcludedCount(),
	})
}
