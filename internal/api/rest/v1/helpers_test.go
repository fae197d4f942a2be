//go:build unit
// +build unit

package v1

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"

	"github.com/gin-gonic/gin"
)

const (
	testCompanyID = "8a6e0804-2bd0-4672-b79d-d97027f9071a"
	testSubject   = "5b2c37a1-9d8e-4f0b-a1c2-3d4e5f607182"
)

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, role string) {
	c.Set(claimsKey, &identity.Claims{Subject: testSubject, Role: role, CompanyID: testCompanyID})
}
