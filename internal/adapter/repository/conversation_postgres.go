package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const conversationColumns = `id::text, title, messages, created_at, updated_at`

// PostgresConversationRepository implementa conversation.Repository sobre PostgreSQL,
// guardando as mensagens como um array JSONB na própria linha da conversa
type PostgresConversationRepository struct {
	db *pgxpool.Pool
}

// NewPostgresConversationRepository cria uma nova instância de PostgresConversationRepository
func NewPostgresConversationRepository(db *pgxpool.Pool) *PostgresConversationRepository {
	return &PostgresConversationRepository{
		db: db,
	}
}

// Create implementa conversation.Repository.Create
func (r *PostgresConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	c := conversation.NewConversation(time.Now().UTC().Truncate(time.Microsecond))

	_, err := r.db.Exec(ctx, `
		INSERT INTO conversations (id, title, messages, created_at, updated_at)
		VALUES ($1, $2, '[]'::jsonb, $3, $4)
	`, c.ID, c.Title, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, conversation.NewStoreError("create", fmt.Errorf("erro ao criar conversa: %w", err))
	}

	return c, nil
}

// FindByID implementa conversation.Repository.FindByID
func (r *PostgresConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	// IDs que não são UUID nunca existem nesta tabela
	if _, err := uuid.Parse(id); err != nil {
		return nil, conversation.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("find_by_id", fmt.Errorf("erro ao buscar conversa: %w", err))
	}

	return c, nil
}

// AppendAndSave implementa conversation.Repository.AppendAndSave.
// A concatenação acontece em um único UPDATE, então lotes concorrentes nunca se sobrescrevem.
func (r *PostgresConversationRepository) AppendAndSave(ctx context.Context, id string, messages []conversation.Message, title *string) (*conversation.Conversation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, conversation.ErrNotFound
	}

	if messages == nil {
		messages = []conversation.Message{}
	}
	batch, err := json.Marshal(messages)
	if err != nil {
		return nil, conversation.NewStoreError("append_and_save", fmt.Errorf("erro ao serializar mensagens: %w", err))
	}

	row := r.db.QueryRow(ctx, `
		UPDATE conversations
		SET messages = messages || $2::jsonb,
			title = COALESCE($3, title),
			updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING `+conversationColumns,
		id, string(batch), title,
	)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("append_and_save", fmt.Errorf("erro ao salvar conversa: %w", err))
	}

	return c, nil
}

// ListSummaries implementa conversation.Repository.ListSummaries
func (r *PostgresConversationRepository) ListSummaries(ctx context.Context) ([]conversation.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao listar conversas: %w", err))
	}
	defer rows.Close()

	summaries := []conversation.Summary{}
	for rows.Next() {
		var s conversation.Summary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao ler conversa: %w", err))
		}
		s.CreatedAt = s.CreatedAt.UTC()
		s.UpdatedAt = s.UpdatedAt.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao ler linhas: %w", err))
	}

	return summaries, nil
}

func scanConversation(row pgx.Row) (*conversation.Conversation, error) {
	var (
		c        conversation.Conversation
		messages []byte
	)
	if err := row.Scan(&c.ID, &c.Title, &messages, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeMessages(messages, &c); err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

// decodeMessages preenche c.Messages a partir do array JSON armazenado
func decodeMessages(raw []byte, c *conversation.Conversation) error {
	c.Messages = []conversation.Message{}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &c.Messages); err != nil {
		return fmt.Errorf("erro ao decodificar mensagens: %w", err)
	}
	if c.Messages == nil {
		c.Messages = []conversation.Message{}
	}
	return nil
}
