package dashboard

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/logging"
	"github.com/pivolan/bandwidth_insights/session"
	"go.uber.org/zap"
)

// Router serves the dashboard over one session.
type Router struct {
	sess  *session.Session
	log   *zap.SugaredLogger
	title string
	topN  int
}

type Options struct {
	Title string
	TopN  int
	Log   *zap.SugaredLogger
}

func NewRouter(sess *session.Session, o Options) *gin.Engine {
	r := &Router{
		sess:  sess,
		log:   o.Log,
		title: o.Title,
		topN:  o.TopN,
	}
	if r.log == nil {
		r.log = logging.Nop()
	}
	if r.title == "" {
		r.title = "Bandwidth Insights"
	}
	if r.topN <= 0 {
		r.topN = 10
	}

	router := gin.New()
	router.Use(r.logMiddleware(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "session": sess.ID()})
	})
	router.GET("/", r.page)

	api := router.Group("/api")
	{
		api.GET("/metrics", r.metrics)
		api.GET("/options", r.options)
		api.GET("/records", r.records)
		api.GET("/report", r.loadReport)
	}

	exports := router.Group("/export")
	{
		exports.GET("/filtered.csv", r.exportFiltered)
		exports.GET("/full.csv", r.exportFull)
		exports.GET("/report.pdf", r.exportPDF)
		exports.GET("/workbook.xlsx", r.exportWorkbook)
	}

	router.POST("/reload", r.reload)

	return router
}

func (r *Router) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r.log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// filterFromQuery reads region, state, status and client_type. Each may repeat
// or carry a comma separated list.
func filterFromQuery(c *gin.Context) models.Filter {
	return models.Filter{
		Regions:     queryList(c, "region"),
		States:      queryList(c, "state"),
		Statuses:    queryList(c, "status"),
		ClientTypes: queryList(c, "client_type"),
	}
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
