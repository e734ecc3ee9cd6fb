package conversation

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UntitledTitle é o título exibido quando a conversa não possui título
const UntitledTitle = "Untitled Chat"

// maxDerivedTitleRunes limita o tamanho do título derivado da primeira mensagem
const maxDerivedTitleRunes = 50

// Sender representa o autor de uma mensagem
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message representa um turno dentro de uma conversa
type Message struct {
	Sender    Sender    `json:"sender" bson:"sender"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Conversation representa uma conversa persistida com suas mensagens em ordem de inserção
type Conversation struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
	Messages  []Message `json:"messages" bson:"messages"`
}

// Summary é a visão resumida usada na listagem de conversas
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewConversation cria uma nova conversa vazia
func NewConversation(now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// NewUserMessage cria uma mensagem do usuário
func NewUserMessage(text string, at time.Time) Message {
	return Message{Sender: SenderUser, Text: text, Timestamp: at}
}

// NewAIMessage cria uma mensagem do assistente
func NewAIMessage(text string, at time.Time) Message {
	return Message{Sender: SenderAI, Text: text, Timestamp: at}
}

// DisplayTitle retorna o título ou "Untitled Chat" quando vazio
func (c *Conversation) DisplayTitle() string {
	if strings.TrimSpace(c.Title) == "" {
		return UntitledTitle
	}
	return c.Title
}

// Summary retorna a visão resumida da conversa
func (c *Conversation) Summary() Summary {
	return Summary{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Clone devolve uma cópia independente da conversa
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// NextUpdatedAt retorna o novo updatedAt garantindo que ele seja estritamente maior que prev
func NextUpdatedAt(prev, now time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

// NormalizeTitle remove espaços das extremidades e valida o título informado
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", "título válido é obrigatório")
	}
	return trimmed, nil
}

// DeriveTitle gera um título a partir da primeira mensagem do usuário
func DeriveTitle(text string) string {
	line := text
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	line = strings.Join(strings.Fields(line), " ")
	if utf8.RuneCountInString(line) <= maxDerivedTitleRunes {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxDerivedTitleRunes])) + "…"
}
