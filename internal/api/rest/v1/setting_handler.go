package v1

import (
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

// SettingHandler defines the interface for company settings
type SettingHandler interface {
	List(ctx *gin.Context)
	Update(ctx *gin.Context)
	Reset(ctx *gin.Context)
}

type settingHandler struct {
	settingService settings.Service
}

// NewSettingHandler creates a new SettingHandler
func NewSettingHandler(settingService settings.Service) SettingHandler {
	return &settingHandler{settingService: settingService}
}

// List handles the GET request for every setting of the company
// @Summary List company settings
// @Description Stored values merged over the defaults of every known key.
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/settings [get]
func (handler *settingHandler) List(ctx *gin.Context) {
	values, err := handler.settingService.GetAll(ctx, claimsFrom(ctx).CompanyID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, values)
}

// Update handles the PUT request to change several settings at once
// @Summary Update company settings
// @Description Either every value is stored or none is.
// @Tags Settings
// @Accept json
// @Produce json
// @Param requestBody body map[string]string true "Key value pairs"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/settings [put]
func (handler *settingHandler) Update(ctx *gin.Context) {
	var request map[string]string
	if !bindJSON(ctx, &request) {
		return
	}

	companyID := claimsFrom(ctx).CompanyID
	if err := handler.settingService.Update(ctx, companyID, request); err != nil {
		writeError(ctx, err)
		return
	}

	values, err := handler.settingService.GetAll(ctx, companyID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, values)
}

// Reset handles the DELETE request that restores the default of one key
// @Summary Reset a setting to its default
// @Tags Settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/settings/{key} [delete]
func (handler *settingHandler) Reset(ctx *gin.Context) {
	key := ctx.Param("key")
	if err := handler.settingService.Reset(ctx, claimsFrom(ctx).CompanyID, key); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: "setting " + key + " reset"})
}
