package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/internal/infrastructure/database"
)

func newSQLiteRepository(t *testing.T) *SQLiteConversationRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.db")
	if err := database.RunSQLiteMigrations(path); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	db, err := database.OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewSQLiteConversationRepository(db)
}

func newPostgresRepository(t *testing.T) *PostgresConversationRepository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL não definido")
	}
	if err := database.RunPostgresMigrations(url); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	pool, err := database.NewPostgresPool(context.Background(), database.PostgresConfig{URL: url})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(context.Background(), `TRUNCATE conversations`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewPostgresConversationRepository(pool)
}

func newMongoRepository(t *testing.T) *MongoConversationRepository {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI não definido")
	}
	client, db, err := database.ConnectMongo(context.Background(), database.MongoConfig{
		URI:      uri,
		Database: "chatbot_test",
	})
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	if err := db.Collection(ConversationsCollection).Drop(context.Background()); err != nil {
		t.Fatalf("drop collection: %v", err)
	}
	repo := NewMongoConversationRepository(db)
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return repo
}

func TestMemoryConversationRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) conversation.Repository {
		return NewMemoryConversationRepository()
	})
}

func TestSQLiteConversationRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) conversation.Repository {
		return newSQLiteRepository(t)
	})
}

func TestPostgresConversationRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) conversation.Repository {
		return newPostgresRepository(t)
	})
}

func TestMongoConversationRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) conversation.Repository {
		return newMongoRepository(t)
	})
}

// testRepository exercita o contrato de conversation.Repository em qualquer implementação
func testRepository(t *testing.T, newRepo func(t *testing.T) conversation.Repository) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		repo := newRepo(t)

		c, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := uuid.Parse(c.ID); err != nil {
			t.Errorf("ID %q is not a UUID: %v", c.ID, err)
		}
		if c.Messages == nil || len(c.Messages) != 0 {
			t.Errorf("Messages = %v, want empty non-nil", c.Messages)
		}
		if !c.CreatedAt.Equal(c.UpdatedAt) {
			t.Errorf("CreatedAt %v != UpdatedAt %v", c.CreatedAt, c.UpdatedAt)
		}

		found, err := repo.FindByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if found.ID != c.ID || len(found.Messages) != 0 || found.Title != "" {
			t.Errorf("FindByID = %+v", found)
		}
		if found.Messages == nil {
			t.Error("FindByID returned nil Messages")
		}
	})

	t.Run("find missing", func(t *testing.T) {
		repo := newRepo(t)

		for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
			_, err := repo.FindByID(ctx, id)
			if !errors.Is(err, conversation.ErrNotFound) {
				t.Errorf("FindByID(%q) error = %v, want ErrNotFound", id, err)
			}
		}
	})

	t.Run("append and save", func(t *testing.T) {
		repo := newRepo(t)

		c, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		now := time.Now().UTC()
		first := []conversation.Message{
			conversation.NewUserMessage("Hi", now),
			conversation.NewAIMessage("Hello!", now),
		}
		saved, err := repo.AppendAndSave(ctx, c.ID, first, nil)
		if err != nil {
			t.Fatalf("AppendAndSave: %v", err)
		}
		if len(saved.Messages) != 2 {
			t.Fatalf("len(Messages) = %d, want 2", len(saved.Messages))
		}
		if !saved.UpdatedAt.After(c.UpdatedAt) {
			t.Errorf("UpdatedAt %v not after %v", saved.UpdatedAt, c.UpdatedAt)
		}
		if !saved.CreatedAt.Equal(c.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", c.CreatedAt, saved.CreatedAt)
		}

		title := "Greetings"
		second := []conversation.Message{
			conversation.NewUserMessage("$set is not an operator here", now),
			conversation.NewAIMessage("", now),
		}
		again, err := repo.AppendAndSave(ctx, c.ID, second, &title)
		if err != nil {
			t.Fatalf("AppendAndSave: %v", err)
		}
		if again.Title != title {
			t.Errorf("Title = %q, want %q", again.Title, title)
		}
		if !again.UpdatedAt.After(saved.UpdatedAt) {
			t.Errorf("UpdatedAt %v not after %v", again.UpdatedAt, saved.UpdatedAt)
		}

		found, err := repo.FindByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		want := []struct {
			sender conversation.Sender
			text   string
		}{
			{conversation.SenderUser, "Hi"},
			{conversation.SenderAI, "Hello!"},
			{conversation.SenderUser, "$set is not an operator here"},
			{conversation.SenderAI, ""},
		}
		if len(found.Messages) != len(want) {
			t.Fatalf("len(Messages) = %d, want %d", len(found.Messages), len(want))
		}
		for i, w := range want {
			m := found.Messages[i]
			if m.Sender != w.sender || m.Text != w.text {
				t.Errorf("Messages[%d] = %s %q, want %s %q", i, m.Sender, m.Text, w.sender, w.text)
			}
			if m.Timestamp.IsZero() {
				t.Errorf("Messages[%d] has zero timestamp", i)
			}
		}
		if found.Title != title {
			t.Errorf("persisted Title = %q, want %q", found.Title, title)
		}
	})

	t.Run("long title", func(t *testing.T) {
		repo := newRepo(t)

		c, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		title := strings.Repeat("título longo ", 40)
		if _, err := repo.AppendAndSave(ctx, c.ID, nil, &title); err != nil {
			t.Fatalf("AppendAndSave: %v", err)
		}

		found, err := repo.FindByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if found.Title != title {
			t.Errorf("Title has %d runes, want %d", len([]rune(found.Title)), len([]rune(title)))
		}
	})

	t.Run("append to missing", func(t *testing.T) {
		repo := newRepo(t)

		msgs := []conversation.Message{conversation.NewUserMessage("Hi", time.Now().UTC())}
		_, err := repo.AppendAndSave(ctx, uuid.NewString(), msgs, nil)
		if !errors.Is(err, conversation.ErrNotFound) {
			t.Errorf("AppendAndSave error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list summaries", func(t *testing.T) {
		repo := newRepo(t)

		empty, err := repo.ListSummaries(ctx)
		if err != nil {
			t.Fatalf("ListSummaries: %v", err)
		}
		if empty == nil || len(empty) != 0 {
			t.Errorf("ListSummaries = %v, want empty non-nil", empty)
		}

		a, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		b, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		// a volta a ser a mais recente
		title := "Most recent"
		msgs := []conversation.Message{conversation.NewUserMessage("Hi", time.Now().UTC())}
		if _, err := repo.AppendAndSave(ctx, a.ID, msgs, &title); err != nil {
			t.Fatalf("AppendAndSave: %v", err)
		}

		summaries, err := repo.ListSummaries(ctx)
		if err != nil {
			t.Fatalf("ListSummaries: %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("len(summaries) = %d, want 2", len(summaries))
		}
		if summaries[0].ID != a.ID || summaries[1].ID != b.ID {
			t.Errorf("order = [%s %s], want [%s %s]", summaries[0].ID, summaries[1].ID, a.ID, b.ID)
		}
		if summaries[0].Title != title {
			t.Errorf("Title = %q, want %q", summaries[0].Title, title)
		}
		for i := 1; i < len(summaries); i++ {
			if summaries[i].UpdatedAt.After(summaries[i-1].UpdatedAt) {
				t.Errorf("summaries not sorted by updatedAt desc at %d", i)
			}
		}
	})

	t.Run("concurrent appends", func(t *testing.T) {
		repo := newRepo(t)

		c, err := repo.Create(ctx)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}

		const workers = 8
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				now := time.Now().UTC()
				msgs := []conversation.Message{
					conversation.NewUserMessage(fmt.Sprintf("q%d", i), now),
					conversation.NewAIMessage(fmt.Sprintf("a%d", i), now),
				}
				if _, err := repo.AppendAndSave(ctx, c.ID, msgs, nil); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("AppendAndSave: %v", err)
		}

		found, err := repo.FindByID(ctx, c.ID)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if len(found.Messages) != 2*workers {
			t.Fatalf("len(Messages) = %d, want %d", len(found.Messages), 2*workers)
		}
		// Cada lote fica contíguo
		for i := 0; i < len(found.Messages); i += 2 {
			q, a := found.Messages[i], found.Messages[i+1]
			if q.Sender != conversation.SenderUser || a.Sender != conversation.SenderAI {
				t.Fatalf("batch at %d is not user/ai: %s/%s", i, q.Sender, a.Sender)
			}
			if q.Text[1:] != a.Text[1:] {
				t.Errorf("batch at %d was split: %q / %q", i, q.Text, a.Text)
			}
		}
	})
}
