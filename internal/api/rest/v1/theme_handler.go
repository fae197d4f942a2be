package v1

import (
	"fmt"
	"net/http"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"

	"github.com/gin-gonic/gin"
)

// LogoFormField is the multipart field carrying a theme logo
const LogoFormField = "logo"

// ThemeHandler defines the interface for admin and client portal themes
type ThemeHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
	Activate(ctx *gin.Context)
	UploadLogo(ctx *gin.Context)
}

type themeHandler struct {
	themeService themes.Service
}

// NewThemeHandler creates a new ThemeHandler
func NewThemeHandler(themeService themes.Service) ThemeHandler {
	return &themeHandler{themeService: themeService}
}

// List handles the GET request for system and company themes
// @Summary List themes
// @Tags Theme
// @Produce json
// @Param type query string false "admin or client"
// @Success 200 {array} ThemeResponse
// @Router /admin/themes [get]
func (handler *themeHandler) List(ctx *gin.Context) {
	list, err := handler.themeService.List(ctx, claimsFrom(ctx).CompanyID, ctx.Query("type"))
	if err != nil {
		writeError(ctx, err)
		return
	}

	var listResponse = []ThemeResponse{}
	for _, theme := range list {
		listResponse = append(listResponse, toThemeResponse(theme))
	}
	ctx.JSON(http.StatusOK, listResponse)
}

// Create handles the POST request to add a company theme
// @Summary Create a theme
// @Description Colors missing from the request are copied from the base theme.
// @Tags Theme
// @Accept json
// @Produce json
// @Param requestBody body ThemeRequest true "Theme"
// @Success 201 {object} ThemeResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/themes [post]
func (handler *themeHandler) Create(ctx *gin.Context) {
	var request ThemeRequest
	if !bindJSON(ctx, &request) {
		return
	}

	theme, err := handler.themeService.Create(ctx, claimsFrom(ctx).CompanyID, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toThemeResponse(theme))
}

// GetByID handles the GET request for one theme
// @Summary Show a theme
// @Tags Theme
// @Produce json
// @Param id path string true "Theme ID"
// @Success 200 {object} ThemeResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/themes/{id} [get]
func (handler *themeHandler) GetByID(ctx *gin.Context) {
	theme, err := handler.themeService.GetByID(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toThemeResponse(theme))
}

// Update handles the PUT request to change a company theme
// @Summary Update a theme
// @Tags Theme
// @Accept json
// @Produce json
// @Param id path string true "Theme ID"
// @Param requestBody body ThemeRequest true "Theme"
// @Success 200 {object} ThemeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/themes/{id} [put]
func (handler *themeHandler) Update(ctx *gin.Context) {
	var request ThemeRequest
	if !bindJSON(ctx, &request) {
		return
	}

	theme, err := handler.themeService.Update(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toThemeResponse(theme))
}

// Delete handles the DELETE request for an inactive company theme
// @Summary Delete a theme
// @Tags Theme
// @Produce json
// @Param id path string true "Theme ID"
// @Success 200 {object} InfoResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/themes/{id} [delete]
func (handler *themeHandler) Delete(ctx *gin.Context) {
	themeID := ctx.Param("id")
	if err := handler.themeService.Delete(ctx, claimsFrom(ctx).CompanyID, themeID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted theme with id %s", themeID)})
}

// Activate handles the POST request that makes a theme the active one of its type
// @Summary Activate a theme
// @Tags Theme
// @Produce json
// @Param id path string true "Theme ID"
// @Success 200 {object} ThemeResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/themes/{id}/activate [post]
func (handler *themeHandler) Activate(ctx *gin.Context) {
	theme, err := handler.themeService.Activate(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toThemeResponse(theme))
}

// UploadLogo handles the POST request to store a logo in blob storage
// @Summary Upload a theme logo
// @Tags Theme
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Theme ID"
// @Param logo formData file true "png, jpg, gif or svg image"
// @Success 200 {object} ThemeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/themes/{id}/logo [post]
func (handler *themeHandler) UploadLogo(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile(LogoFormField)
	if err != nil {
		var errorResponse ErrorResponse
		errorResponse.Message = fmt.Sprintf("invalid form data: %v", err.Error())
		ctx.JSON(http.StatusBadRequest, errorResponse)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(ctx, fmt.Errorf("failed to open uploaded logo: %w", err))
		return
	}
	defer file.Close()

	theme, err := handler.themeService.UploadLogo(ctx, claimsFrom(ctx).CompanyID, ctx.Param("id"), fileHeader.Filename, file)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toThemeResponse(theme))
}
