package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/pkg/completion"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
	"github.com/hugohenrick/chatbot-backend/pkg/metrics"
)

// persistTimeout limita a gravação do turno, que não depende mais da conexão do cliente
const persistTimeout = 10 * time.Second

// Completer gera a resposta do assistente a partir da janela de contexto
type Completer interface {
	Complete(ctx context.Context, messages []completion.Message) (string, error)
}

// Recorder recebe as métricas dos turnos
type Recorder interface {
	RecordChatTurn(outcome string)
	RecordProviderRequest(status string, duration time.Duration)
}

// Reply é o resultado de um turno concluído
type Reply struct {
	Text           string `json:"aiResponse"`
	ConversationID string `json:"conversationId"`
}

// Service orquestra um turno de chat: resolve a conversa, monta a janela de contexto,
// chama o provedor e persiste as mensagens
type Service struct {
	repository conversation.Repository
	completer  Completer
	builder    WindowBuilder
	recorder   Recorder
	logger     logger.Logger
	now        func() time.Time
}

// NewService cria uma nova instância de Service
func NewService(repository conversation.Repository, completer Completer, builder WindowBuilder, recorder Recorder, log logger.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if builder.Size <= 0 || builder.SystemPrompt == "" {
		builder = NewWindowBuilder(builder.SystemPrompt, builder.Size)
	}
	return &Service{
		repository: repository,
		completer:  completer,
		builder:    builder,
		recorder:   recorder,
		logger:     log.With("component", "chat"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Send processa a mensagem do usuário na conversa informada.
// Um ID vazio ou inexistente inicia uma nova conversa. Se o provedor falhar, a mensagem
// do usuário é persistida sozinha e o erro é devolvido dentro de um *TurnError.
func (s *Service) Send(ctx context.Context, conversationID, text string) (*Reply, error) {
	if text == "" {
		s.recorder.RecordChatTurn(metrics.OutcomeValidationError)
		return nil, conversation.NewValidationError("message", "mensagem é obrigatória")
	}

	conv, err := s.resolve(ctx, conversationID)
	if err != nil {
		s.recorder.RecordChatTurn(metrics.OutcomeStoreError)
		return nil, err
	}

	var title *string
	if conv.Title == "" && len(conv.Messages) == 0 {
		if derived := conversation.DeriveTitle(text); derived != "" {
			title = &derived
		}
	}

	// Anexar a mensagem do usuário apenas em memória
	userMsg := conversation.NewUserMessage(text, s.now())
	history := make([]conversation.Message, 0, len(conv.Messages)+1)
	history = append(history, conv.Messages...)
	history = append(history, userMsg)

	window := s.builder.Build(history)

	start := time.Now()
	replyText, err := s.completer.Complete(ctx, window)
	s.recordProvider(err, time.Since(start))

	// A mensagem do usuário é gravada mesmo que o cliente tenha desconectado
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	if err != nil {
		s.logger.Warn("Falha ao gerar resposta; registrando apenas a mensagem do usuário",
			"conversation_id", conv.ID,
			"error", err)

		if _, saveErr := s.repository.AppendAndSave(persistCtx, conv.ID, []conversation.Message{userMsg}, title); saveErr != nil {
			s.logger.Error("Erro ao salvar mensagem do usuário após falha do provedor",
				"conversation_id", conv.ID,
				"error", saveErr)
			s.recorder.RecordChatTurn(metrics.OutcomeStoreError)
			return nil, &TurnError{ConversationID: conv.ID, Err: errors.Join(saveErr, err)}
		}

		s.recorder.RecordChatTurn(metrics.OutcomeProviderError)
		return nil, &TurnError{ConversationID: conv.ID, Err: err}
	}

	aiMsg := conversation.NewAIMessage(replyText, s.now())
	saved, err := s.repository.AppendAndSave(persistCtx, conv.ID, []conversation.Message{userMsg, aiMsg}, title)
	if err != nil {
		s.logger.Error("Erro ao salvar turno", "conversation_id", conv.ID, "error", err)
		s.recorder.RecordChatTurn(metrics.OutcomeStoreError)
		return nil, &TurnError{ConversationID: conv.ID, Err: err}
	}

	s.recorder.RecordChatTurn(metrics.OutcomeSuccess)
	s.logger.Debug("Turno concluído",
		"conversation_id", saved.ID,
		"messages", len(saved.Messages))

	return &Reply{Text: replyText, ConversationID: saved.ID}, nil
}

// resolve busca a conversa pelo ID ou cria uma nova quando o ID está vazio ou não existe
func (s *Service) resolve(ctx context.Context, conversationID string) (*conversation.Conversation, error) {
	if id := strings.TrimSpace(conversationID); id != "" {
		conv, err := s.repository.FindByID(ctx, id)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, conversation.ErrNotFound) {
			return nil, err
		}
		s.logger.Warn("Conversa não encontrada; iniciando uma nova", "conversation_id", id)
	}

	return s.repository.Create(ctx)
}

func (s *Service) recordProvider(err error, duration time.Duration) {
	status := "200"
	if err != nil {
		status = "error"
		if pe, ok := completion.AsProviderError(err); ok {
			status = statusLabel(pe.StatusCode)
		}
	}
	s.recorder.RecordProviderRequest(status, duration)
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	default:
		return "other"
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordChatTurn(string)                       {}
func (nopRecorder) RecordProviderRequest(string, time.Duration) {}
