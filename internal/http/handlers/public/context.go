package public

import (
	handlershared "github.com/numora-app/numora-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (string, bool) {
	return handlershared.GetContextUserID(c)
}

func getSessionToken(c *gin.Context) (string, bool) {
	return handlershared.GetContextSessionToken(c)
}
