package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
)

// MessageResponse representa uma mensagem na resposta da API
type MessageResponse struct {
	Sender    string    `json:"sender" example:"user"`
	Text      string    `json:"text" example:"hi"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationResponse representa uma conversa completa na resposta da API
type ConversationResponse struct {
	ID        string            `json:"id" example:"3f1c9a52-6d0e-4f7a-9b1e-2c4d5e6f7a8b"`
	Title     string            `json:"title" example:"Planejamento da viagem"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []MessageResponse `json:"messages"`
}

// ConversationSummaryResponse representa uma conversa na listagem
type ConversationSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TitleRequest representa o corpo da renomeação de uma conversa.
// Title fica bruto para que valores que não são string sejam rejeitados.
type TitleRequest struct {
	Title json.RawMessage `json:"title" swaggertype:"string" example:"Minha conversa"`
}

// ErrTitleNotString indica que o campo title não é uma string JSON
var ErrTitleNotString = errors.New("título deve ser uma string")

// Value retorna o título informado, sem normalização
func (r TitleRequest) Value() (string, error) {
	raw := bytes.TrimSpace(r.Title)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return "", ErrTitleNotString
	}
	return title, nil
}

// ToConversationResponse converte uma conversa de domínio em resposta
func ToConversationResponse(c *conversation.Conversation) ConversationResponse {
	messages := make([]MessageResponse, 0, len(c.Messages))
	for _, m := range c.Messages {
		messages = append(messages, MessageResponse{
			Sender:    string(m.Sender),
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}

	return ConversationResponse{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  messages,
	}
}

// ToConversationSummaryResponses converte a listagem de domínio em resposta
func ToConversationSummaryResponses(summaries []conversation.Summary) []ConversationSummaryResponse {
	response := make([]ConversationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, ConversationSummaryResponse{
			ID:        s.ID,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return response
}
