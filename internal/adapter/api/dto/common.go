package dto

import "encoding/json"

// Motivos de erro devolvidos no campo reason
const (
	ReasonValidation = "validation_error"
	ReasonNotFound   = "not_found"
	ReasonProvider   = "provider_error"
	ReasonInternal   = "internal_error"
)

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code           int             `json:"code"`
	Reason         string          `json:"reason"`
	Message        string          `json:"message"`
	Details        string          `json:"details,omitempty"`
	ConversationID string          `json:"conversationId,omitempty"`
	Upstream       json.RawMessage `json:"upstream,omitempty" swaggertype:"object"`
}

// HealthResponse representa a resposta do health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, reason, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Reason:  reason,
		Message: message,
		Details: details,
	}
}
