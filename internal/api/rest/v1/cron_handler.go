package v1

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

// CronHandler defines the interface for automation tasks
type CronHandler interface {
	ListTasks(ctx *gin.Context)
	UpdateRun(ctx *gin.Context)
	RunTask(ctx *gin.Context)
	WebRun(ctx *gin.Context)
}

type cronHandler struct {
	cronService    cron.Service
	settingService settings.Service
	now            func() time.Time
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(cronService cron.Service, settingService settings.Service) CronHandler {
	return &cronHandler{
		cronService:    cronService,
		settingService: settingService,
		now:            time.Now,
	}
}

// ListTasks handles the GET request for the task schedule of the company
// @Summary List cron tasks
// @Tags Cron
// @Produce json
// @Success 200 {array} TaskRunResponse
// @Router /admin/cron/tasks [get]
func (handler *cronHandler) ListTasks(ctx *gin.Context) {
	runs, err := handler.cronService.ListTasks(ctx, claimsFrom(ctx).CompanyID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var listResponse = []TaskRunResponse{}
	for _, run := range runs {
		listResponse = append(listResponse, toTaskRunResponse(run))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// UpdateRun handles the PUT request to change when a task runs
// @Summary Update a task schedule
// @Tags Cron
// @Accept json
// @Produce json
// @Param id path string true "Task run ID"
// @Param requestBody body TaskRunRequest true "Schedule"
// @Success 200 {object} TaskRunResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/cron/runs/{id} [put]
func (handler *cronHandler) UpdateRun(ctx *gin.Context) {
	var request TaskRunRequest
	if !bindJSON(ctx, &request) {
		return
	}

	run, err := handler.cronService.UpdateRun(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), &cron.RunUpdate{
		Enabled:  request.Enabled,
		Interval: request.Interval,
		Time:     request.Time,
		Schedule: request.Schedule,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toTaskRunResponse(run))
}

// RunTask handles the POST request to run one task now, due or not
// @Summary Run a cron task
// @Tags Cron
// @Produce json
// @Param key path string true "Task key"
// @Success 200 {object} CronResultResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/cron/tasks/{key}/run [post]
func (handler *cronHandler) RunTask(ctx *gin.Context) {
	result, err := handler.cronService.RunTask(ctx, claimsFrom(ctx).CompanyID, ctx.Param("key"), handler.now())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toCronResultResponse(result))
}

// WebRun handles the POST request an external scheduler uses to run due tasks
// @Summary Run due cron tasks
// @Description Authenticated by the cron_key setting of the company. An empty cron_key disables web cron.
// @Tags Cron
// @Produce json
// @Param company_id query string true "Company ID"
// @Param key query string true "Cron key"
// @Success 200 {object} CronResultResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cron/run [post]
func (handler *cronHandler) WebRun(ctx *gin.Context) {
	companyID := ctx.Query("company_id")
	key := ctx.Query("key")
	if key == "" {
		key = ctx.PostForm("key")
	}

	expected, err := handler.settingService.Get(ctx, companyID, settings.KeyCronKey)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(key)) != 1 {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "invalid cron key"})
		return
	}

	result, err := handler.cronService.RunDue(ctx, companyID, handler.now())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toCronResultResponse(result))
}
