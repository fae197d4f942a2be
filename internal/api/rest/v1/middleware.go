package v1

import (
	"net/http"
	"strings"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/domain/settings"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/paging"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/strutil"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the cookie holding the session token
const SessionCookie = "session"

const claimsKey = "claims"

// sessionToken reads the token from the session cookie or a bearer header
func sessionToken(ctx *gin.Context) string {
	if token, err := ctx.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireRole rejects requests without a valid session of the given role
// and stores the session claims on the context.
func RequireRole(auth identity.Authenticator, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := sessionToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "authentication required"})
			return
		}

		claims, err := auth.ParseSession(token)
		if err != nil {
			writeError(ctx, err)
			return
		}
		if claims.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Message: "insufficient permissions"})
			return
		}

		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

// claimsFrom returns the session claims set by RequireRole
func claimsFrom(ctx *gin.Context) *identity.Claims {
	value, ok := ctx.Get(claimsKey)
	if !ok {
		return &identity.Claims{}
	}
	claims, ok := value.(*identity.Claims)
	if !ok {
		return &identity.Claims{}
	}
	return claims
}

// pageRequest reads ?page and ?per_page. Without per_page the company's
// results_per_page setting applies.
func pageRequest(ctx *gin.Context, settingService settings.Service, companyID string) paging.Request {
	page := strutil.ConvertToInt(ctx.Query("page"), 1)

	perPage := strutil.ConvertToInt(ctx.Query("per_page"), 0)
	if perPage == 0 {
		configured, err := settingService.Int(ctx, companyID, settings.KeyResultsPerPage)
		if err != nil {
			configured = paging.DefaultPerPage
		}
		perPage = configured
	}

	return paging.NewRequest(page, perPage)
}
