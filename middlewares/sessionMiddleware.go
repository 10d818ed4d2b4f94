package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mattobell/dealer_backend/config"
	"github.com/mattobell/dealer_backend/models"
	"github.com/mattobell/dealer_backend/utils"
)

// SessionMiddleware validates the bearer token and hydrates the request
// context with the caller's identity. Requests without a token pass
// through; resource operations then fail on the missing business id.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if auth == "" {
			auth = c.Request.Header.Get("token")
		}
		if auth == "" {
			c.Next()
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		validated, err := utils.JwtValidate(token)
		if err != nil || !validated.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, ok := validated.Claims.(*utils.JwtCustomClaim)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		user, err := lookupUser(c, claims.ID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		if user.IsActive == nil || !*user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user is disabled"})
			c.Abort()
			return
		}

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetUsernameInContext(ctx, user.Username)
		ctx = utils.SetBusinessIdInContext(ctx, user.BusinessId)
		ctx = utils.SetUserIdInContext(ctx, user.ID)
		ctx = utils.SetUserNameInContext(ctx, user.Name)
		ctx = utils.SetIsAdminInContext(ctx, user.Role == models.UserRoleAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func lookupUser(c *gin.Context, userId int) (*models.User, error) {
	key := "UserId:" + strconv.Itoa(userId)

	var user models.User
	exists, err := config.GetRedisObject(key, &user)
	if err == nil && exists {
		return &user, nil
	}

	found, err := models.GetUserById(c.Request.Context(), userId)
	if err != nil {
		return nil, err
	}
	_ = config.SetRedisObject(key, found, utils.GetCacheLifespan())
	return found, nil
}
