package v1

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/reports"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// ReportDateLayout is the layout of the start and end query parameters
const ReportDateLayout = "2006-01-02"

// ReportHandler defines the interface for on demand reports
type ReportHandler interface {
	List(ctx *gin.Context)
	Generate(ctx *gin.Context)
}

type reportHandler struct {
	reportService reports.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService reports.Service) ReportHandler {
	return &reportHandler{reportService: reportService}
}

// List handles the GET request for the registered reports
// @Summary List reports
// @Tags Report
// @Produce json
// @Success 200 {array} ReportInfoResponse
// @Router /admin/reports [get]
func (handler *reportHandler) List(ctx *gin.Context) {
	var listResponse = []ReportInfoResponse{}
	for _, report := range handler.reportService.List() {
		listResponse = append(listResponse, ReportInfoResponse{Key: report.Key, Name: report.Name})
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// Generate handles the GET request that renders a report as JSON or CSV
// @Summary Generate a report
// @Description Start defaults to the first day of the end month, end defaults to today.
// @Tags Report
// @Produce json
// @Produce text/csv
// @Param key path string true "Report key"
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD, inclusive"
// @Param status query string false "Invoice status"
// @Param format query string false "json or csv"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/reports/{key} [get]
func (handler *reportHandler) Generate(ctx *gin.Context) {
	format := ctx.DefaultQuery("format", reports.FormatJSON)
	if format != reports.FormatJSON && format != reports.FormatCSV {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("unsupported format %q", format)})
		return
	}

	params, err := reportParams(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	result, err := handler.reportService.Generate(ctx, claimsFrom(ctx).CompanyID, ctx.Param("key"), params)
	if err != nil {
		writeError(ctx, err)
		return
	}

	if format == reports.FormatCSV {
		writeCSV(ctx, result)
		return
	}

	rows := result.Rows
	if rows == nil {
		rows = [][]string{}
	}
	ctx.JSON(http.StatusOK, ReportResponse{
		Key:     result.Key,
		Name:    result.Name,
		Columns: result.Columns,
		Rows:    rows,
	})
}

// reportParams parses the date range. The end date covers the whole day.
func reportParams(ctx *gin.Context) (reports.Params, error) {
	params := reports.Params{Status: ctx.Query("status")}
	errs := validation.Errors{}

	if start := ctx.Query("start"); start != "" {
		parsed, err := time.Parse(ReportDateLayout, start)
		if err != nil {
			errs.Add("Start", "must be a date formatted as "+ReportDateLayout)
		}
		params.Start = parsed
	}
	if end := ctx.Query("end"); end != "" {
		parsed, err := time.Parse(ReportDateLayout, end)
		if err != nil {
			errs.Add("End", "must be a date formatted as "+ReportDateLayout)
		} else {
			params.End = parsed.Add(24*time.Hour - time.Nanosecond)
		}
	}

	return params, errs.Err()
}

func writeCSV(ctx *gin.Context, result *reports.Result) {
	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Key+".csv"))
	ctx.Status(http.StatusOK)

	writer := csv.NewWriter(ctx.Writer)
	if err := writer.Write(result.Columns); err != nil {
		_ = ctx.Error(err)
		return
	}
	for _, row := range result.Rows {
		if err := writer.Write(row); err != nil {
			_ = ctx.Error(err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = ctx.Error(err)
	}
}
