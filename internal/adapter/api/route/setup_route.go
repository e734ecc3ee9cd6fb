package route

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/dto"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Version é a versão exposta no health check
const Version = "1.0.0"

// SetupHealthRoutes configura o health check
func SetupHealthRoutes(router *gin.RouterGroup, store string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  "ok",
			Version: Version,
			Store:   store,
		})
	})
}

// SetupOperationalRoutes configura as rotas fora do prefixo da API: métricas e documentação
func SetupOperationalRoutes(router *gin.Engine, metricsHandler http.Handler) {
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
