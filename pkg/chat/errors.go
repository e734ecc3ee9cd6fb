package chat

import (
	"errors"
	"fmt"
)

// TurnError indica que o turno falhou depois que a conversa foi resolvida.
// ConversationID identifica onde a mensagem do usuário ficou registrada.
type TurnError struct {
	ConversationID string
	Err            error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("turno da conversa %s falhou: %v", e.ConversationID, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// ConversationIDFromError retorna o ID da conversa associada à falha, quando houver
func ConversationIDFromError(err error) string {
	var te *TurnError
	if errors.As(err, &te) {
		return te.ConversationID
	}
	return ""
}
