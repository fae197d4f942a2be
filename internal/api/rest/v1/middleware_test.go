//go:build unit
// +build unit

package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(auth identity.Authenticator, role string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireRole(auth, role), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"subject": claimsFrom(ctx).Subject})
	})
	return r
}

func TestRequireRole_NoToken(t *testing.T) {
	mockAuth := new(MockAuthenticator)
	r := newProtectedRouter(mockAuth, identity.RoleStaff)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertNotCalled(t, "ParseSession", mock.Anything)
}

func TestRequireRole_BearerToken(t *testing.T) {
	mockAuth := new(MockAuthenticator)
	mockAuth.On("ParseSession", "good-token").
		Return(&identity.Claims{Subject: testSubject, Role: identity.RoleStaff, CompanyID: testCompanyID}, nil)
	r := newProtectedRouter(mockAuth, identity.RoleStaff)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testSubject)
	mockAuth.AssertExpectations(t)
}

func TestRequireRole_SessionCookie(t *testing.T) {
	mockAuth := new(MockAuthenticator)
	mockAuth.On("ParseSession", "cookie-token").
		Return(&identity.Claims{Subject: testSubject, Role: identity.RoleClient, CompanyID: testCompanyID}, nil)
	r := newProtectedRouter(mockAuth, identity.RoleClient)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestRequireRole_WrongRole(t *testing.T) {
	mockAuth := new(MockAuthenticator)
	mockAuth.On("ParseSession", "client-token").
		Return(&identity.Claims{Subject: testSubject, Role: identity.RoleClient, CompanyID: testCompanyID}, nil)
	r := newProtectedRouter(mockAuth, identity.RoleStaff)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer client-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_InvalidToken(t *testing.T) {
	mockAuth := new(MockAuthenticator)
	mockAuth.On("ParseSession", "expired").Return(nil, identity.ErrInvalidToken)
	r := newProtectedRouter(mockAuth, identity.RoleStaff)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer expired")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), identity.ErrInvalidToken.Error())
}

func TestPageRequest(t *testing.T) {
	t.Run("uses the company setting", func(t *testing.T) {
		mockSettings := new(MockSettingService)
		mockSettings.On("Int", mock.Anything, testCompanyID, settings.KeyResultsPerPage).Return(25, nil)

		c, _ := newTestContext("GET", "/clients?page=3", "")
		req := pageRequest(c, mockSettings, testCompanyID)

		assert.Equal(t, 3, req.Page)
		assert.Equal(t, 25, req.PerPage)
	})

	t.Run("query overrides and clamps", func(t *testing.T) {
		mockSettings := new(MockSettingService)

		c, _ := newTestContext("GET", "/clients?page=0&per_page=500", "")
		req := pageRequest(c, mockSettings, testCompanyID)

		require.Equal(t, 1, req.Page)
		assert.Equal(t, paging.MaxPerPage, req.PerPage)
		mockSettings.AssertNotCalled(t, "Int", mock.Anything, mock.Anything, mock.Anything)
	})
}
