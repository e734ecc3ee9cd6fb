package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/controller"
)

// SetupConversationRoutes configura as rotas para o módulo de conversas
func SetupConversationRoutes(router *gin.RouterGroup, conversationController *controller.ConversationController) {
	conversationRouter := router.Group("/conversations")
	{
		conversationRouter.GET("", conversationController.List)
		conversationRouter.POST("/new", conversationController.Create)
		conversationRouter.GET("/:id", conversationController.GetByID)
		conversationRouter.PUT("/:id/title", conversationController.UpdateTitle)
		conversationRouter.GET("/:id/export/:format", conversationController.Export)
	}
}
