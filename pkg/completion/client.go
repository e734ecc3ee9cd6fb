package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-3.5-turbo"
	DefaultTimeout = 60 * time.Second

	completionsPath = "/chat/completions"
)

// Roles accepted by the provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Config holds the provider setup injected at construction
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// Headers are sent on every request (e.g. HTTP-Referer, X-Title)
	Headers map[string]string
}

// Message represents a role-tagged chat message sent to the provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Client is a stateless adapter to an OpenAI-compatible chat completions API
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	maxTokens  int
	headers    map[string]string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new completion client
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("chave da API do provedor não configurada")
	}
	if log == nil {
		log = logger.NewNop()
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		if v != "" {
			headers[k] = v
		}
	}

	return &Client{
		endpoint:  strings.TrimRight(baseURL, "/") + completionsPath,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: cfg.MaxTokens,
		headers:   headers,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}, nil
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

// Complete sends the message sequence and returns the generated reply.
// A single attempt is made; failures are returned as *ProviderError.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	reqJSON, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("erro ao serializar requisição: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqJSON))
	if err != nil {
		return "", fmt.Errorf("erro ao criar requisição HTTP: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("Enviando requisição ao provedor",
		"model", c.model,
		"numMessages", len(messages))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Erro na chamada do provedor", "error", err)
		return "", transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Erro ao ler resposta do provedor", "error", err)
		return "", transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Provedor retornou erro",
			"statusCode", resp.StatusCode,
			"body", truncate(string(respBody), 400))
		return "", &ProviderError{
			StatusCode: resp.StatusCode,
			Payload:    respBody,
			Message:    fmt.Sprintf("provedor retornou status %d", resp.StatusCode),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("Erro ao decodificar resposta do provedor", "error", err, "body", truncate(string(respBody), 400))
		return "", &ProviderError{
			StatusCode: http.StatusBadGateway,
			Payload:    respBody,
			Message:    "resposta do provedor em formato inválido",
			Err:        err,
		}
	}
	if len(parsed.Choices) == 0 {
		c.logger.Error("Provedor não retornou alternativas", "body", truncate(string(respBody), 400))
		return "", &ProviderError{
			StatusCode: http.StatusBadGateway,
			Payload:    respBody,
			Message:    "resposta do provedor sem alternativas",
		}
	}

	if parsed.Usage != nil {
		c.logger.Info("Resposta gerada com sucesso",
			"model", parsed.Model,
			"input_tokens", parsed.Usage.PromptTokens,
			"output_tokens", parsed.Usage.CompletionTokens,
			"finish_reason", parsed.Choices[0].FinishReason)
	}

	content := parsed.Choices[0].Message.Content
	if content == nil {
		return "", nil
	}
	return *content, nil
}

// transportError maps network-level failures to a gateway-class ProviderError
func transportError(err error) *ProviderError {
	status := http.StatusBadGateway
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		status = http.StatusGatewayTimeout
	}
	return &ProviderError{
		StatusCode: status,
		Message:    "falha de comunicação com o provedor",
		Err:        err,
	}
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
