package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

var _ repository.UsuarioRepository = (*UsuarioRepo)(nil)

// UsuarioRepo implementação do porto UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	pool *pgxpool.Pool
}

// NewUsuarioRepository constrói o adaptador de persistência para usuários.
func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepo {
	return &UsuarioRepo{pool: pool}
}

// Create persiste um novo usuário.
func (r *UsuarioRepo) Create(user *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, email, password_hash, nome, perfil, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.Nome, user.Perfil, user.Status,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

func (r *UsuarioRepo) scanOne(row pgx.Row) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nome, &u.Perfil, &u.Status,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan usuario: %w", err)
	}
	return &u, nil
}

// GetByID obtém um usuário por ID.
func (r *UsuarioRepo) GetByID(id string) (*entity.Usuario, error) {
	query := `
		SELECT id, email, password_hash, nome, perfil, status, created_at, updated_at
		FROM usuarios WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, id))
}

// FindByEmail obtém um usuário por email.
func (r *UsuarioRepo) FindByEmail(email string) (*entity.Usuario, error) {
	query := `
		SELECT id, email, password_hash, nome, perfil, status, created_at, updated_at
		FROM usuarios WHERE email = $1`
	return r.scanOne(r.pool.QueryRow(context.Background(), query, email))
}
