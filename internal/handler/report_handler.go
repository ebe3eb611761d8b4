package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/internal/export"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
	"stockdesk/internal/table"
)

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
	exportService service.ExportService
	log           *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, exportService service.ExportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService, log: log}
}

// parseReportRequest extracts the report filter and table params from query
// params. Page and per_page land in Params; the report decides whether they
// go upstream.
func parseReportRequest(c *gin.Context) (domain.ReportFilter, report.Params, error) {
	f, err := domain.ParseReportFilter(c.Request.URL.Query())
	if err != nil {
		return domain.ReportFilter{}, report.Params{}, err
	}
	p := report.Params{Page: f.Page, PageSize: f.PerPage}
	f.Page, f.PerPage = 0, 0

	if col := c.Query("sort"); col != "" {
		dir := table.SortDirection(strings.ToLower(c.DefaultQuery("dir", string(table.SortAsc))))
		if dir != table.SortAsc && dir != table.SortDesc {
			return domain.ReportFilter{}, report.Params{}, fmt.Errorf("%w: invalid 'dir': must be asc or desc", domain.ErrInvalidFilter)
		}
		p.Sort = table.Sort{Column: col, Direction: dir}
	}
	p.Search = table.Search{Column: c.Query("search_column"), Value: c.Query("search")}
	if hidden := c.Query("hidden"); hidden != "" {
		for _, col := range strings.Split(hidden, ",") {
			if col = strings.TrimSpace(col); col != "" {
				p.Hidden = append(p.Hidden, col)
			}
		}
	}
	return f, p, nil
}

// List handles GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	RespondOK(c, h.reportService.List())
}

// Show handles GET /api/v1/reports/:domain/:name
func (h *ReportHandler) Show(c *gin.Context) {
	f, p, err := parseReportRequest(c)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	v, err := h.reportService.Render(c.Request.Context(), c.Param("domain"), c.Param("name"), f, p)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondPaginated(c, v, v.Pagination)
}

// Export handles GET /api/v1/reports/:domain/:name/export
// The backend CSV is passed through unchanged.
func (h *ReportHandler) Export(c *gin.Context) {
	f, _, err := parseReportRequest(c)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	d, info, err := h.reportService.Export(c.Request.Context(), c.Param("domain"), c.Param("name"), f)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	defer func() { _ = d.Body.Close() }()

	filename := d.Filename
	if filename == "" {
		filename = export.BuildFilename(info.Title, export.FormatCSV, timeNow())
	}
	contentType := d.ContentType
	if contentType == "" {
		contentType = export.FormatCSV.ContentType()
	}
	c.DataFromReader(http.StatusOK, d.Size, contentType, d.Body, map[string]string{
		"Content-Disposition": disposition(filename),
	})
}

// Download handles GET /api/v1/reports/:domain/:name/download?format=csv|xlsx
// It renders every filtered row of the table as the user configured it.
func (h *ReportHandler) Download(c *gin.Context) {
	f, p, err := parseReportRequest(c)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	var buf bytes.Buffer
	res, err := h.exportService.Table(c.Request.Context(), c.Param("domain"), c.Param("name"), f, p, format, &buf)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", disposition(res.Filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Archive handles POST /api/v1/reports/:domain/:name/archive
func (h *ReportHandler) Archive(c *gin.Context) {
	f, _, err := parseReportRequest(c)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	res, err := h.exportService.Archive(c.Request.Context(), c.Param("domain"), c.Param("name"), f)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondCreated(c, res)
}

var timeNow = time.Now

func disposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
