package domain

import "errors"

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound           = errors.New("recurso não encontrado")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrEmailAlreadyExists = errors.New("o email já está cadastrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrInsufficientStock  = errors.New("estoque insuficiente")
	ErrAlreadyResolved    = errors.New("solicitação já resolvida")
	// ErrConflict indica contenção/violação de isolamento transacional.
	// É o único erro que o chamador pode repetir com segurança.
	ErrConflict       = errors.New("conflito com o estado atual")
	ErrStorageFailure = errors.New("falha na camada de persistência")
)
