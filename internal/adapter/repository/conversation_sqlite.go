package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
)

// SQLiteConversationRepository implementa conversation.Repository sobre SQLite.
// As mensagens ficam serializadas como JSON na coluna messages e os instantes
// são gravados em nanossegundos Unix.
type SQLiteConversationRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteConversationRepository cria uma nova instância de SQLiteConversationRepository.
// O banco deve ser aberto com _txlock=immediate para serializar as escritas.
func NewSQLiteConversationRepository(db *sql.DB) *SQLiteConversationRepository {
	return &SQLiteConversationRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create implementa conversation.Repository.Create
func (r *SQLiteConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	c := conversation.NewConversation(r.now())

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, messages, created_at, updated_at)
		VALUES (?, ?, '[]', ?, ?)
	`, c.ID, c.Title, c.CreatedAt.UnixNano(), c.UpdatedAt.UnixNano())
	if err != nil {
		return nil, conversation.NewStoreError("create", fmt.Errorf("erro ao criar conversa: %w", err))
	}

	return c, nil
}

// FindByID implementa conversation.Repository.FindByID
func (r *SQLiteConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	c, err := r.find(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("find_by_id", fmt.Errorf("erro ao buscar conversa: %w", err))
	}
	return c, nil
}

// AppendAndSave implementa conversation.Repository.AppendAndSave
func (r *SQLiteConversationRepository) AppendAndSave(ctx context.Context, id string, messages []conversation.Message, title *string) (*conversation.Conversation, error) {
	var saved *conversation.Conversation

	err := r.transaction(ctx, func(tx *sql.Tx) error {
		c, err := r.find(ctx, tx, id)
		if err != nil {
			return err
		}

		c.Messages = append(c.Messages, messages...)
		if title != nil {
			c.Title = *title
		}
		c.UpdatedAt = conversation.NextUpdatedAt(c.UpdatedAt, r.now())

		encoded, err := json.Marshal(c.Messages)
		if err != nil {
			return fmt.Errorf("erro ao serializar mensagens: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations SET messages = ?, title = ?, updated_at = ? WHERE id = ?
		`, string(encoded), c.Title, c.UpdatedAt.UnixNano(), id)
		if err != nil {
			return fmt.Errorf("erro ao salvar conversa: %w", err)
		}

		saved = c
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("append_and_save", err)
	}

	return saved, nil
}

// ListSummaries implementa conversation.Repository.ListSummaries
func (r *SQLiteConversationRepository) ListSummaries(ctx context.Context) ([]conversation.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao listar conversas: %w", err))
	}
	defer rows.Close()

	summaries := []conversation.Summary{}
	for rows.Next() {
		var (
			s                conversation.Summary
			created, updated int64
		)
		if err := rows.Scan(&s.ID, &s.Title, &created, &updated); err != nil {
			return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao ler conversa: %w", err))
		}
		s.CreatedAt = fromUnixNano(created)
		s.UpdatedAt = fromUnixNano(updated)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao ler linhas: %w", err))
	}

	return summaries, nil
}

type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *SQLiteConversationRepository) find(ctx context.Context, q sqlQuerier, id string) (*conversation.Conversation, error) {
	var (
		c                conversation.Conversation
		messages         string
		created, updated int64
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, title, messages, created_at, updated_at FROM conversations WHERE id = ?
	`, id).Scan(&c.ID, &c.Title, &messages, &created, &updated)
	if err != nil {
		return nil, err
	}

	if err := decodeMessages([]byte(messages), &c); err != nil {
		return nil, err
	}
	c.CreatedAt = fromUnixNano(created)
	c.UpdatedAt = fromUnixNano(updated)
	return &c, nil
}

// transaction executa uma função dentro de uma transação
func (r *SQLiteConversationRepository) transaction(ctx context.Context, txFunc func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao iniciar transação: %w", err)
	}

	if err := txFunc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("erro ao fazer commit: %w", err)
	}
	return nil
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
