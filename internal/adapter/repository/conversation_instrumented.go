package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

// OperationRecorder recebe a duração e o status de cada operação do repositório
type OperationRecorder interface {
	RecordStoreOperation(operation, status string, duration time.Duration)
}

// InstrumentedConversationRepository registra métricas e logs em volta de outro repositório
type InstrumentedConversationRepository struct {
	next     conversation.Repository
	recorder OperationRecorder
	logger   logger.Logger
}

// NewInstrumentedConversationRepository cria uma nova instância de InstrumentedConversationRepository
func NewInstrumentedConversationRepository(next conversation.Repository, recorder OperationRecorder, log logger.Logger) *InstrumentedConversationRepository {
	if log == nil {
		log = logger.NewNop()
	}
	return &InstrumentedConversationRepository{
		next:     next,
		recorder: recorder,
		logger:   log.With("component", "store"),
	}
}

// Create implementa conversation.Repository.Create
func (r *InstrumentedConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	start := time.Now()
	c, err := r.next.Create(ctx)
	r.observe("create", start, err)
	return c, err
}

// FindByID implementa conversation.Repository.FindByID
func (r *InstrumentedConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	start := time.Now()
	c, err := r.next.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	return c, err
}

// AppendAndSave implementa conversation.Repository.AppendAndSave
func (r *InstrumentedConversationRepository) AppendAndSave(ctx context.Context, id string, messages []conversation.Message, title *string) (*conversation.Conversation, error) {
	start := time.Now()
	c, err := r.next.AppendAndSave(ctx, id, messages, title)
	r.observe("append_and_save", start, err)
	return c, err
}

// ListSummaries implementa conversation.Repository.ListSummaries
func (r *InstrumentedConversationRepository) ListSummaries(ctx context.Context) ([]conversation.Summary, error) {
	start := time.Now()
	s, err := r.next.ListSummaries(ctx)
	r.observe("list_summaries", start, err)
	return s, err
}

func (r *InstrumentedConversationRepository) observe(operation string, start time.Time, err error) {
	duration := time.Since(start)

	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, conversation.ErrNotFound):
		status = "not_found"
	default:
		status = "error"
		r.logger.Error("Erro na operação do repositório", "operation", operation, "error", err)
	}

	if r.recorder != nil {
		r.recorder.RecordStoreOperation(operation, status, duration)
	}
	r.logger.Debug("Operação do repositório concluída",
		"operation", operation,
		"status", status,
		"duration_ms", duration.Milliseconds())
}
