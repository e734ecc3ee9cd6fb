package dto

// ChatRequest representa uma mensagem enviada ao chat
type ChatRequest struct {
	ConversationID string `json:"conversationId" example:"3f1c9a52-6d0e-4f7a-9b1e-2c4d5e6f7a8b"`
	Message        string `json:"message" example:"hi"`
}

// ChatResponse representa a resposta de um turno de chat
type ChatResponse struct {
	AIResponse     string `json:"aiResponse" example:"Hello! How can I help you today?"`
	ConversationID string `json:"conversationId" example:"3f1c9a52-6d0e-4f7a-9b1e-2c4d5e6f7a8b"`
}
