package handlers

import "github.com/gin-gonic/gin"

// 上下文键由鉴权中间件写入
const (
	ContextUserIDKey       = "user_id"
	ContextSessionTokenKey = "session_token"
)

func getUserID(c *gin.Context) (uint, bool) {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func getSessionToken(c *gin.Context) (string, bool) {
	value, ok := c.Get(ContextSessionTokenKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
