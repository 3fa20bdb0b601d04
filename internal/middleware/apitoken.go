package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/models"
)

const ContextIntegrationBusiness = "integrationBusiness"

// APITokenMiddleware autentica integrações máquina-a-máquina (bots de
// atendimento, automações) pelo header X-Api-Token do negócio.
func APITokenMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Api-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_api_token"})
			return
		}

		var biz models.Business
		if err := db.Where("api_token = ?", token).First(&biz).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_api_token"})
			return
		}

		c.Set(ContextIntegrationBusiness, &biz)
		c.Next()
	}
}
