package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-backend/pkg/chat"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

// ChatSender processa um turno de chat
type ChatSender interface {
	Send(ctx context.Context, conversationID, text string) (*chat.Reply, error)
}

// ChatController gerencia as requisições de chat
type ChatController struct {
	service ChatSender
	logger  logger.Logger
}

// NewChatController cria uma nova instância de ChatController
func NewChatController(service ChatSender, log logger.Logger) *ChatController {
	if log == nil {
		log = logger.NewNop()
	}
	return &ChatController{
		service: service,
		logger:  log,
	}
}

// Send envia uma mensagem ao assistente
// @Summary Envia uma mensagem ao assistente
// @Description Processa um turno de chat. Sem conversationId, ou com um ID inexistente, uma nova conversa é criada.
// @Tags chat
// @Accept json
// @Produce json
// @Param message body dto.ChatRequest true "Mensagem do usuário"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	var request dto.ChatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	reply, err := c.service.Send(ctx.Request.Context(), request.ConversationID, request.Message)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ChatResponse{
		AIResponse:     reply.Text,
		ConversationID: reply.ConversationID,
	})
}
