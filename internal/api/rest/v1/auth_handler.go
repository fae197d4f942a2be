package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/staff"

	"github.com/gin-gonic/gin"
)

// AuthHandler defines the interface for session and staff account operations
type AuthHandler interface {
	StaffLogin(ctx *gin.Context)
	ClientLogin(ctx *gin.Context)
	Logout(ctx *gin.Context)
	Me(ctx *gin.Context)
	CreateStaff(ctx *gin.Context)
	EnrollOTP(ctx *gin.Context)
	ConfirmOTP(ctx *gin.Context)
	DisableOTP(ctx *gin.Context)
}

type authHandler struct {
	authenticator identity.Authenticator
	staffService  staff.Service
	cookieSecure  bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authenticator identity.Authenticator, staffService staff.Service, cookieSecure bool) AuthHandler {
	return &authHandler{
		authenticator: authenticator,
		staffService:  staffService,
		cookieSecure:  cookieSecure,
	}
}

type loginFunc func(ctx context.Context, req identity.LoginRequest) (*identity.Session, error)

// StaffLogin handles the POST request to start a staff session
// @Summary Log in as staff
// @Description Verify staff credentials and the one-time password when two-factor is enabled. The token is also set as the session cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param requestBody body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/staff/login [post]
func (handler *authHandler) StaffLogin(ctx *gin.Context) {
	var request LoginRequest
	if !bindJSON(ctx, &request) || !validated(ctx, &request) {
		return
	}
	handler.startSession(ctx, &request, handler.authenticator.LoginStaff)
}

// ClientLogin handles the POST request to start a client portal session
// @Summary Log in as a client
// @Tags Auth
// @Accept json
// @Produce json
// @Param requestBody body LoginRequest true "Credentials with company_id"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/client/login [post]
func (handler *authHandler) ClientLogin(ctx *gin.Context) {
	var request LoginRequest
	if !bindJSON(ctx, &request) || !validated(ctx, &request) {
		return
	}
	if request.CompanyID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  map[string]string{"CompanyID": "is required"},
		})
		return
	}
	handler.startSession(ctx, &request, handler.authenticator.LoginClient)
}

func (handler *authHandler) startSession(ctx *gin.Context, request *LoginRequest, login loginFunc) {
	session, err := login(ctx, identity.LoginRequest{
		CompanyID: request.CompanyID,
		Username:  request.Username,
		Password:  request.Password,
		OTP:       request.OTP,
		IPAddress: ctx.ClientIP(),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}

	maxAge := int(time.Until(session.Claims.ExpiresAt).Seconds())
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookie, session.Token, maxAge, "/", "", handler.cookieSecure, true)

	ctx.JSON(http.StatusOK, SessionResponse{
		Token:     session.Token,
		Role:      session.Claims.Role,
		Subject:   session.Claims.Subject,
		CompanyID: session.Claims.CompanyID,
		ExpiresAt: session.Claims.ExpiresAt,
	})
}

// Logout handles the POST request to end the session
// @Summary Log out
// @Description Clear the session cookie. Bearer tokens stay valid until they expire.
// @Tags Auth
// @Produce json
// @Success 200 {object} InfoResponse
// @Router /auth/logout [post]
func (handler *authHandler) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(SessionCookie, "", -1, "/", "", handler.cookieSecure, true)
	ctx.JSON(http.StatusOK, InfoResponse{Message: "logged out"})
}

// Me handles the GET request for the staff member owning the session
// @Summary Show the current staff member
// @Tags Staff
// @Produce json
// @Success 200 {object} StaffResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/staff/me [get]
func (handler *authHandler) Me(ctx *gin.Context) {
	member, err := handler.staffService.GetByID(ctx, claimsFrom(ctx).Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, toStaffResponse(member))
}

// CreateStaff handles the POST request to add a staff member to the company
// @Summary Create a staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param requestBody body StaffRequest true "Staff member"
// @Success 201 {object} StaffResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/staff [post]
func (handler *authHandler) CreateStaff(ctx *gin.Context) {
	var request StaffRequest
	if !bindJSON(ctx, &request) {
		return
	}

	member, err := handler.staffService.Create(ctx, claimsFrom(ctx).CompanyID, request.toInput())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, toStaffResponse(member))
}

// EnrollOTP handles the POST request to start two-factor setup
// @Summary Start two-factor enrollment
// @Description Generate a new secret. It only takes effect after a code generated from it is confirmed.
// @Tags Staff
// @Produce json
// @Success 200 {object} EnrollmentResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/staff/me/otp [post]
func (handler *authHandler) EnrollOTP(ctx *gin.Context) {
	enrollment, err := handler.authenticator.EnrollTOTP(ctx, claimsFrom(ctx).Subject)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, EnrollmentResponse{Secret: enrollment.Secret, URL: enrollment.URL})
}

// ConfirmOTP handles the POST request that enables two-factor login
// @Summary Confirm two-factor enrollment
// @Tags Staff
// @Accept json
// @Produce json
// @Param requestBody body OTPConfirmRequest true "Current code"
// @Success 200 {object} InfoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/staff/me/otp/confirm [post]
func (handler *authHandler) ConfirmOTP(ctx *gin.Context) {
	var request OTPConfirmRequest
	if !bindJSON(ctx, &request) || !validated(ctx, &request) {
		return
	}

	if err := handler.authenticator.ConfirmTOTP(ctx, claimsFrom(ctx).Subject, request.Code); err != nil {
		// a wrong code here is a bad request, not a failed login
		if errors.Is(err, identity.ErrInvalidOTP) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: "two-factor authentication enabled"})
}

// DisableOTP handles the DELETE request that turns two-factor login off
// @Summary Disable two-factor authentication
// @Tags Staff
// @Produce json
// @Success 200 {object} InfoResponse
// @Router /admin/staff/me/otp [delete]
func (handler *authHandler) DisableOTP(ctx *gin.Context) {
	if err := handler.authenticator.DisableTOTP(ctx, claimsFrom(ctx).Subject); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, InfoResponse{Message: "two-factor authentication disabled"})
}
