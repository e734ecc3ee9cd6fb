package conversation

import (
	"errors"
	"fmt"
)

// ErrNotFound ocorre quando o identificador não corresponde a nenhuma conversa
var ErrNotFound = errors.New("conversa não encontrada")

// ValidationError representa uma entrada malformada ou ausente
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError cria um novo erro de validação
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// StoreError encapsula falhas da camada de persistência
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError cria um novo erro de persistência para a operação informada
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("erro de persistência em %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation verifica se o erro é de validação
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStore verifica se o erro veio da camada de persistência
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
