package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/dto"
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/pkg/export"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

// ConversationController gerencia as requisições relacionadas às conversas
type ConversationController struct {
	repository conversation.Repository
	formatter  *export.Formatter
	logger     logger.Logger
}

// NewConversationController cria uma nova instância de ConversationController
func NewConversationController(repository conversation.Repository, formatter *export.Formatter, log logger.Logger) *ConversationController {
	if formatter == nil {
		formatter = export.NewFormatter(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &ConversationController{
		repository: repository,
		formatter:  formatter,
		logger:     log,
	}
}

// List lista as conversas
// @Summary Lista as conversas
// @Description Lista o resumo das conversas, da mais recente para a mais antiga
// @Tags conversations
// @Produce json
// @Success 200 {array} dto.ConversationSummaryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations [get]
func (c *ConversationController) List(ctx *gin.Context) {
	summaries, err := c.repository.ListSummaries(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationSummaryResponses(summaries))
}

// GetByID busca uma conversa pelo ID
// @Summary Busca uma conversa pelo ID
// @Description Retorna a conversa com todas as mensagens
// @Tags conversations
// @Produce json
// @Param id path string true "ID da conversa"
// @Success 200 {object} dto.ConversationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/{id} [get]
func (c *ConversationController) GetByID(ctx *gin.Context) {
	conv, err := c.repository.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

// Create cria uma nova conversa vazia
// @Summary Cria uma nova conversa
// @Description Cria uma conversa vazia, sem título
// @Tags conversations
// @Produce json
// @Success 201 {object} dto.ConversationResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/new [post]
func (c *ConversationController) Create(ctx *gin.Context) {
	conv, err := c.repository.Create(ctx.Request.Context())
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToConversationResponse(conv))
}

// UpdateTitle renomeia uma conversa
// @Summary Renomeia uma conversa
// @Description Atualiza o título da conversa; espaços nas extremidades são removidos
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "ID da conversa"
// @Param title body dto.TitleRequest true "Novo título"
// @Success 200 {object} dto.ConversationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/{id}/title [put]
func (c *ConversationController) UpdateTitle(ctx *gin.Context) {
	var request dto.TitleRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		respondBadRequest(ctx, err.Error())
		return
	}

	raw, err := request.Value()
	if err != nil {
		if errors.Is(err, dto.ErrTitleNotString) {
			respondError(ctx, c.logger, conversation.NewValidationError("title", err.Error()))
			return
		}
		respondBadRequest(ctx, err.Error())
		return
	}

	title, err := conversation.NormalizeTitle(raw)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	conv, err := c.repository.AppendAndSave(ctx.Request.Context(), ctx.Param("id"), nil, &title)
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToConversationResponse(conv))
}

// Export exporta uma conversa
// @Summary Exporta uma conversa
// @Description Gera o arquivo da conversa em json ou txt
// @Tags conversations
// @Produce json
// @Produce plain
// @Param id path string true "ID da conversa"
// @Param format path string true "Formato do arquivo" Enums(json, txt)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /conversations/{id}/export/{format} [get]
func (c *ConversationController) Export(ctx *gin.Context) {
	conv, err := c.repository.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	file, err := c.formatter.Export(conv, ctx.Param("format"))
	if err != nil {
		respondError(ctx, c.logger, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	ctx.Data(http.StatusOK, file.MIMEType, file.Content)
}
