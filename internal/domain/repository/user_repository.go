package repository

import "github.com/almoxsys/almoxarifado-api/internal/domain/entity"

// UsuarioRepository define a porta de persistência para Usuario.
type UsuarioRepository interface {
	Create(user *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	FindByEmail(email string) (*entity.Usuario, error)
}
