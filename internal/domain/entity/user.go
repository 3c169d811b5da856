package entity

import "time"

// Perfis válidos para Usuario.
const (
	PerfilAdmin        = "admin"        // registra movimentações diretas e resolve solicitações
	PerfilConsulta     = "consulta"     // somente leitura de histórico e materiais
	PerfilRequisitante = "requisitante" // cria solicitações de retirada
)

// Usuario representa um usuário do sistema.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca plano no domínio após persistir
	Nome         string
	Perfil       string // admin, consulta, requisitante
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
