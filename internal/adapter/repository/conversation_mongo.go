package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationsCollection é o nome da coleção de conversas no MongoDB
const ConversationsCollection = "conversations"

// MongoConversationRepository implementa conversation.Repository sobre MongoDB,
// com um documento por conversa
type MongoConversationRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoConversationRepository cria uma nova instância de MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{
		collection: db.Collection(ConversationsCollection),
		// O BSON guarda datas com precisão de milissegundos
		now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureIndexes cria os índices usados pela listagem
func (r *MongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updatedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("erro ao criar índice de conversas: %w", err)
	}
	return nil
}

// Create implementa conversation.Repository.Create
func (r *MongoConversationRepository) Create(ctx context.Context) (*conversation.Conversation, error) {
	c := conversation.NewConversation(r.now())

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return nil, conversation.NewStoreError("create", fmt.Errorf("erro ao criar conversa: %w", err))
	}

	return c, nil
}

// FindByID implementa conversation.Repository.FindByID
func (r *MongoConversationRepository) FindByID(ctx context.Context, id string) (*conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("find_by_id", fmt.Errorf("erro ao buscar conversa: %w", err))
	}

	normalize(&c)
	return &c, nil
}

// AppendAndSave implementa conversation.Repository.AppendAndSave.
// Usa um pipeline de atualização em um único FindOneAndUpdate; os valores do usuário
// entram via $literal para que textos iniciados por "$" não sejam lidos como campos.
func (r *MongoConversationRepository) AppendAndSave(ctx context.Context, id string, messages []conversation.Message, title *string) (*conversation.Conversation, error) {
	if messages == nil {
		messages = []conversation.Message{}
	}

	set := bson.M{
		"messages": bson.M{"$concatArrays": bson.A{
			bson.M{"$ifNull": bson.A{"$messages", bson.A{}}},
			bson.M{"$literal": messages},
		}},
		"updatedAt": bson.M{"$max": bson.A{
			r.now(),
			bson.M{"$add": bson.A{"$updatedAt", 1}},
		}},
	}
	if title != nil {
		set["title"] = bson.M{"$literal": *title}
	}

	update := mongo.Pipeline{{{Key: "$set", Value: set}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c conversation.Conversation
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, conversation.ErrNotFound
		}
		return nil, conversation.NewStoreError("append_and_save", fmt.Errorf("erro ao salvar conversa: %w", err))
	}

	normalize(&c)
	return &c, nil
}

// ListSummaries implementa conversation.Repository.ListSummaries
func (r *MongoConversationRepository) ListSummaries(ctx context.Context) ([]conversation.Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"messages": 0}).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao listar conversas: %w", err))
	}

	summaries := []conversation.Summary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, conversation.NewStoreError("list_summaries", fmt.Errorf("erro ao ler conversas: %w", err))
	}

	for i := range summaries {
		summaries[i].CreatedAt = summaries[i].CreatedAt.UTC()
		summaries[i].UpdatedAt = summaries[i].UpdatedAt.UTC()
	}
	return summaries, nil
}

func normalize(c *conversation.Conversation) {
	if c.Messages == nil {
		c.Messages = []conversation.Message{}
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	for i := range c.Messages {
		c.Messages[i].Timestamp = c.Messages[i].Timestamp.UTC()
	}
}
