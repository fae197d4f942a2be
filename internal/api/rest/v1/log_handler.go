package v1

import (
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/cron"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/logs"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

// LogHandler defines the interface for reading audit logs
type LogHandler interface {
	List(ctx *gin.Context)
}

type logHandler struct {
	logService     logs.Service
	cronService    cron.Service
	settingService settings.Service
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(logService logs.Service, cronService cron.Service, settingService settings.Service) LogHandler {
	return &logHandler{
		logService:     logService,
		cronService:    cronService,
		settingService: settingService,
	}
}

// List handles the GET request for one log type, newest first
// @Summary List log entries
// @Description The cron type lists task runs and accepts a group filter. Every other type accepts a client filter.
// @Tags Log
// @Produce json
// @Param type path string true "email, gateway, module, user, account_access or cron"
// @Param client_id query string false "Only entries of this client"
// @Param group query string false "Cron task group, system or a plugin directory"
// @Param page query int false "Page number"
// @Success 200 {object} PageResponse[LogEntryResponse]
// @Failure 400 {object} ErrorResponse
// @Router /admin/logs/{type} [get]
func (handler *logHandler) List(ctx *gin.Context) {
	companyID := claimsFrom(ctx).CompanyID
	page := pageRequest(ctx, handler.settingService, companyID)

	if ctx.Param("type") == logs.TypeCron {
		runLogs, err := handler.cronService.ListRunLogs(ctx, &cron.LogQuery{
			CompanyID: companyID,
			Group:     ctx.Query("group"),
			Page:      page,
		})
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, newPageResponse(runLogs, toRunLogResponse))
		return
	}

	entries, err := handler.logService.List(ctx, &logs.Query{
		CompanyID: companyID,
		Type:      ctx.Param("type"),
		ClientID:  ctx.Query("client_id"),
		Page:      page,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(entries, toLogEntryResponse))
}
