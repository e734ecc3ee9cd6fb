package conversation

import (
	"context"
)

// Repository define a interface para operações de repositório de conversas
type Repository interface {
	// Create cria e persiste uma nova conversa vazia
	Create(ctx context.Context) (*Conversation, error)

	// FindByID busca uma conversa pelo ID; retorna ErrNotFound quando não existe
	FindByID(ctx context.Context, id string) (*Conversation, error)

	// AppendAndSave anexa as mensagens de forma atômica, atualiza o título quando
	// informado e renova o updatedAt
	AppendAndSave(ctx context.Context, id string, messages []Message, title *string) (*Conversation, error)

	// ListSummaries lista os resumos das conversas ordenados por updatedAt decrescente
	ListSummaries(ctx context.Context) ([]Summary, error)
}
