package main

import (
	"context"
	"log"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/adapter/repository"
	"github.com/hugohenrick/chatbot-backend/internal/config"
	"github.com/hugohenrick/chatbot-backend/internal/infrastructure/database"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Executar as migrações
	if err := runMigrations(ctx, cfg.Store); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	log.Println("Migrações executadas com sucesso!")
}

func runMigrations(ctx context.Context, store config.StoreConfig) error {
	switch store.Driver {
	case config.DriverPostgres:
		log.Println("Aplicando migrações no PostgreSQL")
		return database.RunPostgresMigrations(store.DatabaseURL)

	case config.DriverSQLite:
		log.Printf("Aplicando migrações no SQLite %s", store.SQLitePath)
		return database.RunSQLiteMigrations(store.SQLitePath)

	case config.DriverMongo:
		log.Printf("Criando índices no MongoDB %s", store.MongoDatabase)
		client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI:      store.MongoURI,
			Database: store.MongoDatabase,
		})
		if err != nil {
			return err
		}
		defer client.Disconnect(context.Background())

		return repository.NewMongoConversationRepository(db).EnsureIndexes(ctx)

	default:
		log.Printf("Driver %s não possui migrações", store.Driver)
		return nil
	}
}
