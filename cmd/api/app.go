package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/hugohenrick/chatbot-backend/docs"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/controller"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/api/route"
	"github.com/hugohenrick/chatbot-backend/internal/adapter/repository"
	"github.com/hugohenrick/chatbot-backend/internal/config"
	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
	"github.com/hugohenrick/chatbot-backend/internal/infrastructure/database"
	"github.com/hugohenrick/chatbot-backend/pkg/chat"
	"github.com/hugohenrick/chatbot-backend/pkg/completion"
	"github.com/hugohenrick/chatbot-backend/pkg/export"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
	"github.com/hugohenrick/chatbot-backend/pkg/metrics"
	"github.com/hugohenrick/chatbot-backend/pkg/middleware"
)

// App representa a aplicação e suas dependências
type App struct {
	config  *config.Config
	logger  logger.Logger
	metrics *metrics.Metrics
	router  *gin.Engine
	closers []func()
}

// NewApp cria uma nova instância do aplicativo
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.NewMetrics(),
	}

	// Configurar armazenamento
	store, err := app.openStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	repo := repository.NewInstrumentedConversationRepository(store, app.metrics, log)

	// Criar cliente do provedor
	client, err := completion.NewClient(cfg.Completion(), log.With("component", "completion"))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("erro ao criar cliente do provedor: %w", err)
	}

	// Criar serviços
	builder := chat.NewWindowBuilder(cfg.Chat.SystemPrompt, cfg.Chat.WindowSize)
	chatService := chat.NewService(repo, client, builder, app.metrics, log)

	// Criar controllers
	conversationController := controller.NewConversationController(repo, export.NewFormatter(cfg.Export.Location), log)
	chatController := controller.NewChatController(chatService, log)

	app.setupRouter(conversationController, chatController)

	log.Info("Aplicação configurada",
		"store", cfg.Store.Driver,
		"model", client.Model(),
		"window_size", builder.Size)

	return app, nil
}

// openStore abre o armazenamento configurado, aplicando as migrações quando habilitadas
func (a *App) openStore(ctx context.Context) (conversation.Repository, error) {
	cfg := a.config.Store

	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := database.RunPostgresMigrations(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
			URL:             cfg.DatabaseURL,
			MaxConnections:  cfg.MaxConnections,
			MinConnections:  cfg.MinConnections,
			MaxConnLifetime: cfg.MaxConnLifetime,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		return repository.NewPostgresConversationRepository(pool), nil

	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, database.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		})
		repo := repository.NewMongoConversationRepository(db)
		if cfg.AutoMigrate {
			if err := repo.EnsureIndexes(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil

	case config.DriverSQLite:
		if cfg.AutoMigrate {
			if err := database.RunSQLiteMigrations(cfg.SQLitePath); err != nil {
				return nil, err
			}
		}
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		return repository.NewSQLiteConversationRepository(db), nil

	case config.DriverMemory:
		a.logger.Warn("Usando armazenamento em memória; as conversas serão perdidas ao reiniciar")
		return repository.NewMemoryConversationRepository(), nil
	}

	return nil, fmt.Errorf("driver de armazenamento desconhecido: %q", cfg.Driver)
}

// setupRouter configura middlewares e rotas
func (a *App) setupRouter(conversationController *controller.ConversationController, chatController *controller.ChatController) {
	if a.config.Server.GinMode != "" {
		gin.SetMode(a.config.Server.GinMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(a.logger.With("component", "http")),
		middleware.Metrics(a.metrics),
		cors.New(a.corsConfig()),
	)

	api := router.Group("/api")
	route.SetupHealthRoutes(api, a.config.Store.Driver)
	route.SetupConversationRoutes(api, conversationController)
	route.SetupChatRoutes(api, chatController)
	route.SetupOperationalRoutes(router, a.metrics.Handler())

	a.router = router
}

func (a *App) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range a.config.Server.AllowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = a.config.Server.AllowedOrigins
	return cfg
}

// Run inicia o servidor HTTP e o encerra de forma graciosa quando o contexto é cancelado
func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + a.config.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Servidor HTTP iniciado", "port", a.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Encerrando servidor HTTP")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro ao encerrar servidor: %w", err)
	}
	return nil
}

// GetRouter retorna o router da aplicação
func (a *App) GetRouter() *gin.Engine {
	return a.router
}

// Close libera os recursos da aplicação
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
