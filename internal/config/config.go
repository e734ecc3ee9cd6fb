package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hugohenrick/chatbot-backend/pkg/completion"
)

// Drivers de armazenamento suportados
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config reúne todas as configurações da aplicação
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Chat     ChatConfig
	Store    StoreConfig
	Log      LogConfig
	Export   ExportConfig
}

// ServerConfig contém as configurações do servidor HTTP
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ProviderConfig contém as configurações do provedor de completions
type ProviderConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	HTTPReferer string
	AppTitle    string
	Timeout     time.Duration
	MaxTokens   int
}

// ChatConfig contém as configurações da janela de contexto
type ChatConfig struct {
	SystemPrompt string
	WindowSize   int
}

// StoreConfig contém as configurações de armazenamento
type StoreConfig struct {
	Driver          string
	DatabaseURL     string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MongoURI        string
	MongoDatabase   string
	SQLitePath      string
	AutoMigrate     bool
}

// LogConfig contém as configurações de log
type LogConfig struct {
	Level  string
	Pretty bool
}

// ExportConfig contém as configurações de exportação
type ExportConfig struct {
	Location *time.Location
}

// Load lê a configuração das variáveis de ambiente.
// Todos os problemas encontrados são devolvidos juntos.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			GinMode:         getEnv("GIN_MODE", ""),
			ShutdownTimeout: getSeconds("SHUTDOWN_TIMEOUT", 10, &errs),
			AllowedOrigins:  getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		Provider: ProviderConfig{
			APIKey:      getEnv("OPENROUTER_API_KEY", os.Getenv("PROVIDER_API_KEY")),
			BaseURL:     getEnv("PROVIDER_BASE_URL", completion.DefaultBaseURL),
			Model:       getEnv("PROVIDER_MODEL", completion.DefaultModel),
			HTTPReferer: getEnv("PROVIDER_HTTP_REFERER", ""),
			AppTitle:    getEnv("PROVIDER_APP_TITLE", "My AI Chatbot App"),
			Timeout:     getDuration("PROVIDER_TIMEOUT", completion.DefaultTimeout, &errs),
			MaxTokens:   getInt("PROVIDER_MAX_TOKENS", 0, &errs),
		},
		Chat: ChatConfig{
			SystemPrompt: getEnv("SYSTEM_PROMPT", ""),
			WindowSize:   getInt("CONTEXT_WINDOW_SIZE", 10, &errs),
		},
		Store: StoreConfig{
			Driver:          strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			DatabaseURL:     getEnv("DATABASE_URL", ""),
			MaxConnections:  int32(getInt("DB_MAX_CONNECTIONS", 10, &errs)),
			MinConnections:  int32(getInt("DB_MIN_CONNECTIONS", 1, &errs)),
			MaxConnLifetime: getSeconds("DB_MAX_LIFETIME", 3600, &errs),
			MongoURI:        getEnv("MONGO_URI", ""),
			MongoDatabase:   getEnv("MONGO_DATABASE", "chatbot"),
			SQLitePath:      getEnv("SQLITE_PATH", ""),
			AutoMigrate:     getBool("DB_AUTO_MIGRATE", true, &errs),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBool("LOG_PRETTY", false, &errs),
		},
	}

	location, err := time.LoadLocation(getEnv("EXPORT_TIMEZONE", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("EXPORT_TIMEZONE inválido: %w", err))
	}
	cfg.Export.Location = location

	if cfg.Provider.APIKey == "" {
		errs = append(errs, errors.New("OPENROUTER_API_KEY é obrigatório"))
	}
	if cfg.Chat.WindowSize <= 0 {
		errs = append(errs, errors.New("CONTEXT_WINDOW_SIZE deve ser maior que zero"))
	}

	switch cfg.Store.Driver {
	case DriverPostgres:
		if cfg.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL é obrigatório para o driver postgres"))
		}
	case DriverMongo:
		if cfg.Store.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI é obrigatório para o driver mongo"))
		}
	case DriverSQLite:
		if cfg.Store.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH é obrigatório para o driver sqlite"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER desconhecido: %q", cfg.Store.Driver))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}
	return cfg, nil
}

// Completion monta a configuração do cliente de completions
func (c *Config) Completion() completion.Config {
	return completion.Config{
		BaseURL:   c.Provider.BaseURL,
		APIKey:    c.Provider.APIKey,
		Model:     c.Provider.Model,
		MaxTokens: c.Provider.MaxTokens,
		Timeout:   c.Provider.Timeout,
		Headers: map[string]string{
			"HTTP-Referer": c.Provider.HTTPReferer,
			"X-Title":      c.Provider.AppTitle,
		},
	}
}

// getEnv retorna o valor de uma variável de ambiente ou um valor padrão
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s deve ser um número inteiro: %q", key, value))
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s deve ser true ou false: %q", key, value))
		return defaultValue
	}
	return b
}

// getSeconds lê um número de segundos
func getSeconds(key string, defaultValue int, errs *[]error) time.Duration {
	return time.Duration(getInt(key, defaultValue, errs)) * time.Second
}

// getDuration aceita tanto durações ("90s", "2m") quanto um número de segundos
func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s deve ser uma duração válida: %q", key, value))
		return defaultValue
	}
	return d
}

func getList(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
