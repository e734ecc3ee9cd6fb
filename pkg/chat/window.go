package chat

import (
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/pkg/completion"
)

const (
	// DefaultWindowSize é a quantidade de mensagens do histórico enviadas ao provedor
	DefaultWindowSize = 10

	// DefaultSystemPrompt orienta o comportamento do assistente
	DefaultSystemPrompt = "You are a helpful and friendly AI assistant. Be concise."
)

// WindowBuilder monta a janela de contexto enviada ao provedor
type WindowBuilder struct {
	SystemPrompt string
	Size         int
}

// NewWindowBuilder cria um WindowBuilder aplicando os valores padrão
func NewWindowBuilder(systemPrompt string, size int) WindowBuilder {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	if size <= 0 {
		size = DefaultWindowSize
	}
	return WindowBuilder{SystemPrompt: systemPrompt, Size: size}
}

// Build retorna a mensagem de sistema seguida das últimas Size mensagens, a mais recente por último
func (b WindowBuilder) Build(messages []conversation.Message) []completion.Message {
	start := 0
	if len(messages) > b.Size {
		start = len(messages) - b.Size
	}
	recent := messages[start:]

	window := make([]completion.Message, 0, len(recent)+1)
	window = append(window, completion.Message{Role: completion.RoleSystem, Content: b.SystemPrompt})
	for _, msg := range recent {
		window = append(window, completion.Message{Role: roleFor(msg.Sender), Content: msg.Text})
	}
	return window
}

func roleFor(sender conversation.Sender) string {
	if sender == conversation.SenderUser {
		return completion.RoleUser
	}
	return completion.RoleAssistant
}
