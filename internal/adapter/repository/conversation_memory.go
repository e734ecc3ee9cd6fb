package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
)

// MemoryConversationRepository implementa conversation.Repository em memória
type MemoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]*conversation.Conversation
	now           func() time.Time
}

// NewMemoryConversationRepository cria uma nova instância de MemoryConversationRepository
func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string]*conversation.Conversation),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create implementa conversation.Repository.Create
func (r *MemoryConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	c := conversation.NewConversation(r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = c

	return c.Clone(), nil
}

// FindByID implementa conversation.Repository.FindByID
func (r *MemoryConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}
	return c.Clone(), nil
}

// AppendAndSave implementa conversation.Repository.AppendAndSave
func (r *MemoryConversationRepository) AppendAndSave(ctx context.Context, id string, messages []conversation.Message, title *string) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}

	c.Messages = append(c.Messages, messages...)
	if title != nil {
		c.Title = *title
	}
	c.UpdatedAt = conversation.NextUpdatedAt(c.UpdatedAt, r.now())

	return c.Clone(), nil
}

// ListSummaries implementa conversation.Repository.ListSummaries
func (r *MemoryConversationRepository) ListSummaries(ctx context.Context) ([]conversation.Summary, error) {
	r.mu.RLock()
	summaries := make([]conversation.Summary, 0, len(r.conversations))
	for _, c := range r.conversations {
		summaries = append(summaries, c.Summary())
	}
	r.mu.RUnlock()

	sortSummaries(summaries)
	return summaries, nil
}

// sortSummaries ordena por updatedAt decrescente, desempatando pelo ID
func sortSummaries(summaries []conversation.Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
}
