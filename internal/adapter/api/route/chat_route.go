package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/controller"
)

// SetupChatRoutes configura as rotas de chat
func SetupChatRoutes(router *gin.RouterGroup, chatController *controller.ChatController) {
	router.POST("/chat", chatController.Send)
}
