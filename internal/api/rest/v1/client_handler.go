package v1

import (
	"fmt"
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/clients"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"

	"github.com/gin-gonic/gin"
)

// ClientHandler defines the interface for staff client management
type ClientHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type clientHandler struct {
	clientService  clients.Service
	settingService settings.Service
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService clients.Service, settingService settings.Service) ClientHandler {
	return &clientHandler{
		clientService:  clientService,
		settingService: settingService,
	}
}

// List handles the GET request to page through clients
// @Summary List clients
// @Tags Client
// @Produce json
// @Param status query string false "active, inactive or fraud"
// @Param q query string false "Matches name, email, username or company"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} PageResponse[ClientResponse]
// @Failure 400 {object} ErrorResponse
// @Router /admin/clients [get]
func (handler *clientHandler) List(ctx *gin.Context) {
	companyID := claimsFrom(ctx).CompanyID

	page, err := handler.clientService.List(ctx, &clients.Query{
		CompanyID: companyID,
		Status:    ctx.Query("status"),
		Search:    ctx.Query("q"),
		Page:      pageRequest(ctx, handler.settingService, companyID),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPageResponse(page, toClientResponse))
}

// Create handles the POST request to add a client
// @Summary Create a client
// @Tags Client
// @Accept json
// @Produce json
// @Param requestBody body ClientRequest true "Client"
// @Success 201 {object} ClientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/clients [post]
func (handler *clientHandler) Create(ctx *gin.Context) {
	var request ClientRequest
	if !bindJSON(ctx, &request) {
		return
	}

	client, err := handler.clientService.Create(ctx, claimsFrom(ctx).CompanyID, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toClientResponse(client))
}

// GetByID handles the GET request for one client
// @Summary Show a client
// @Tags Client
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id} [get]
func (handler *clientHandler) GetByID(ctx *gin.Context) {
	client, err := handler.clientService.GetByID(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toClientResponse(client))
}

// Update handles the PUT request to change a client
// @Summary Update a client
// @Tags Client
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param requestBody body ClientRequest true "Client"
// @Success 200 {object} ClientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/clients/{id} [put]
func (handler *clientHandler) Update(ctx *gin.Context) {
	var request ClientRequest
	if !bindJSON(ctx, &request) {
		return
	}

	client, err := handler.clientService.Update(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toClientResponse(client))
}

// Delete handles the DELETE request for a client without billing history
// @Summary Delete a client
// @Tags Client
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/clients/{id} [delete]
func (handler *clientHandler) Delete(ctx *gin.Context) {
	clientID := ctx.Param("id")
	if err := handler.clientService.Delete(ctx, claimsFrom(ctx).CompanyID, clientID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted client with id %s", clientID)})
}
