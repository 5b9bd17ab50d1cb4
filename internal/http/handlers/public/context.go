package public

import (
	handlershared "github.com/gobox-app/internal/http/handlers/shared"
	"github.com/gobox-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondErrorWithMsg(c, code, msg, err)
}

func getSession(c *gin.Context) *service.Session {
	return handlershared.GetSession(c)
}

func requireSession(c *gin.Context) (*service.Session, bool) {
	return handlershared.RequireSession(c)
}

func parsePagination(c *gin.Context) (int, int) {
	return handlershared.ParsePagination(c)
}
