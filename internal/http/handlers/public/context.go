package public

import (
	"github.com/inkwell-api/internal/authz"
	handlershared "github.com/inkwell-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// getIdentity 读取中间件写入的身份,未登录时返回匿名身份。
func getIdentity(c *gin.Context) authz.Identity {
	identity := authz.Identity{}
	if value, ok := c.Get("user_id"); ok {
		if id, ok := value.(uint); ok {
			identity.UserID = id
		}
	}
	if value, ok := c.Get("user_role"); ok {
		if role, ok := value.(string); ok {
			identity.Role = role
		}
	}
	return identity
}
