package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/pkg/chat"
	"github.com/hugohenrick/chatbot-backend/pkg/completion"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

// respondError converte um erro de domínio na resposta HTTP correspondente.
// Falhas de armazenamento nunca expõem detalhes internos ao cliente.
func respondError(ctx *gin.Context, log logger.Logger, err error) {
	_ = ctx.Error(err)

	var response dto.ErrorResponse
	switch {
	case conversation.IsValidation(err):
		response = dto.NewErrorResponse(http.StatusBadRequest, dto.ReasonValidation, "Requisição inválida", err.Error())
	case errors.Is(err, conversation.ErrNotFound):
		response = dto.NewErrorResponse(http.StatusNotFound, dto.ReasonNotFound, "Conversa não encontrada", "")
	case conversation.IsStore(err):
		log.Error("Erro de armazenamento", "error", err)
		response = dto.NewErrorResponse(http.StatusInternalServerError, dto.ReasonInternal, "Erro interno do servidor", "")
	default:
		if pe, ok := completion.AsProviderError(err); ok {
			response = dto.NewErrorResponse(pe.HTTPStatus(), dto.ReasonProvider, "Erro ao gerar resposta do assistente", pe.Message)
			response.Upstream = pe.UpstreamPayload()
			break
		}
		log.Error("Erro inesperado", "error", err)
		response = dto.NewErrorResponse(http.StatusInternalServerError, dto.ReasonInternal, "Erro interno do servidor", "")
	}

	response.ConversationID = chat.ConversationIDFromError(err)
	ctx.JSON(response.Code, response)
}

// respondBadRequest responde 400 para corpos que não puderam ser lidos
func respondBadRequest(ctx *gin.Context, details string) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, dto.ReasonValidation, "Requisição inválida", details))
}
