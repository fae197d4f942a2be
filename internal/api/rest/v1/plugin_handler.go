package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/plugins"

	"github.com/gin-gonic/gin"
)

// PluginHandler defines the interface for installing and managing plugins
type PluginHandler interface {
	Available(ctx *gin.Context)
	Installed(ctx *gin.Context)
	Install(ctx *gin.Context)
	Uninstall(ctx *gin.Context)
	Enable(ctx *gin.Context)
	Disable(ctx *gin.Context)
	Upgrade(ctx *gin.Context)
}

type pluginHandler struct {
	pluginService plugins.Service
}

// NewPluginHandler creates a new PluginHandler
func NewPluginHandler(pluginService plugins.Service) PluginHandler {
	return &pluginHandler{pluginService: pluginService}
}

// Available handles the GET request for every plugin found in the plugin directory
// @Summary List available plugins
// @Tags Plugin
// @Produce json
// @Success 200 {array} AvailablePluginResponse
// @Router /admin/plugins/available [get]
func (handler *pluginHandler) Available(ctx *gin.Context) {
	list, err := handler.pluginService.Available(ctx, claimsFrom(ctx).CompanyID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var listResponse = []AvailablePluginResponse{}
	for _, available := range list {
		listResponse = append(listResponse, toAvailablePluginResponse(available))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// Installed handles the GET request for the plugins installed by the company
// @Summary List installed plugins
// @Tags Plugin
// @Produce json
// @Success 200 {array} PluginResponse
// @Router /admin/plugins [get]
func (handler *pluginHandler) Installed(ctx *gin.Context) {
	list, err := handler.pluginService.Installed(ctx, claimsFrom(ctx).CompanyID)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var listResponse = []PluginResponse{}
	for _, plugin := range list {
		listResponse = append(listResponse, toPluginResponse(plugin))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// Install handles the POST request to install a plugin and its cron tasks
// @Summary Install a plugin
// @Tags Plugin
// @Accept json
// @Produce json
// @Param requestBody body InstallPluginRequest true "Plugin directory"
// @Success 201 {object} PluginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/plugins [post]
func (handler *pluginHandler) Install(ctx *gin.Context) {
	var request InstallPluginRequest
	if !bindJSON(ctx, &request) || !validated(ctx, &request) {
		return
	}

	plugin, err := handler.pluginService.Install(ctx, claimsFrom(ctx).CompanyID, request.Dir)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toPluginResponse(plugin))
}

// Uninstall handles the DELETE request that removes a plugin and its cron tasks
// @Summary Uninstall a plugin
// @Tags Plugin
// @Produce json
// @Param id path string true "Plugin ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/plugins/{id} [delete]
func (handler *pluginHandler) Uninstall(ctx *gin.Context) {
	pluginID := ctx.Param("id")
	if err := handler.pluginService.Uninstall(ctx, claimsFrom(ctx).CompanyID, pluginID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("uninstalled plugin with id %s", pluginID)})
}

// Enable handles the POST request to enable a plugin
// @Summary Enable a plugin
// @Tags Plugin
// @Produce json
// @Param id path string true "Plugin ID"
// @Success 200 {object} PluginResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/plugins/{id}/enable [post]
func (handler *pluginHandler) Enable(ctx *gin.Context) {
	handler.respond(ctx, handler.pluginService.Enable)
}

// Disable handles the POST request to disable a plugin. Its cron tasks stop running.
// @Summary Disable a plugin
// @Tags Plugin
// @Produce json
// @Param id path string true "Plugin ID"
// @Success 200 {object} PluginResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/plugins/{id}/disable [post]
func (handler *pluginHandler) Disable(ctx *gin.Context) {
	handler.respond(ctx, handler.pluginService.Disable)
}

// Upgrade handles the POST request to move a plugin to the version on disk
// @Summary Upgrade a plugin
// @Tags Plugin
// @Produce json
// @Param id path string true "Plugin ID"
// @Success 200 {object} PluginResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/plugins/{id}/upgrade [post]
func (handler *pluginHandler) Upgrade(ctx *gin.Context) {
	handler.respond(ctx, handler.pluginService.Upgrade)
}

func (handler *pluginHandler) respond(ctx *gin.Context, action func(ctx context.Context, companyID, pluginID string) (*plugins.Plugin, error)) {
	plugin, err := action(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toPluginResponse(plugin))
}
