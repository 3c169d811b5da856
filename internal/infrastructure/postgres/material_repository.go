package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/almoxsys/almoxarifado-api/internal/domain"
	"github.com/almoxsys/almoxarifado-api/internal/domain/entity"
	"github.com/almoxsys/almoxarifado-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, codigo, nome, descricao, categoria, localizacao, foto_url,
		unidade_medida, quantidade_minima, quantidade_atual, created_at, updated_at`

// MaterialRepo implementação de MaterialRepository sobre PostgreSQL (usável
// com pool ou tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste um novo material. Código duplicado vira ErrDuplicate.
func (r *MaterialRepo) Create(m *entity.Material) error {
	query := `
		INSERT INTO materiais (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Codigo, m.Nome, m.Descricao, m.Categoria, m.Localizacao, m.FotoURL,
		m.UnidadeMedida, m.QuantidadeMinima, m.QuantidadeAtual, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

func (r *MaterialRepo) scanOne(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Codigo, &m.Nome, &m.Descricao, &m.Categoria, &m.Localizacao, &m.FotoURL,
		&m.UnidadeMedida, &m.QuantidadeMinima, &m.QuantidadeAtual, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}

// GetByID obtém um material por ID.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiais WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCodigo obtém um material pelo código humano único.
func (r *MaterialRepo) GetByCodigo(codigo string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiais WHERE codigo = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, codigo))
}

// GetForUpdate obtém o material e bloqueia a linha (SELECT FOR UPDATE).
// Duas transações concorrentes contra o mesmo material ficam estritamente
// ordenadas aqui: a segunda vê o estoque já decrementado pela primeira.
func (r *MaterialRepo) GetForUpdate(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiais WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStock grava o novo contador de estoque.
func (r *MaterialRepo) UpdateStock(id string, quantidadeAtual int) error {
	query := `UPDATE materiais SET quantidade_atual = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantidadeAtual)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateInfo atualiza apenas os campos descritivos.
func (r *MaterialRepo) UpdateInfo(m *entity.Material) error {
	query := `
		UPDATE materiais
		SET codigo = $2, nome = $3, descricao = $4, categoria = $5, localizacao = $6,
			foto_url = $7, unidade_medida = $8, quantidade_minima = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		m.ID, m.Codigo, m.Nome, m.Descricao, m.Categoria, m.Localizacao,
		m.FotoURL, m.UnidadeMedida, m.QuantidadeMinima, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista materiais ordenados por nome.
func (r *MaterialRepo) List(limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiais ORDER BY nome LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materiais: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

// ListBelowMinimum lista materiais com estoque abaixo do ponto de reposição.
func (r *MaterialRepo) ListBelowMinimum() ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materiais
		WHERE quantidade_atual < quantidade_minima ORDER BY nome`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list materiais abaixo do mínimo: %w", err)
	}
	defer rows.Close()
	return r.scanList(rows)
}

func (r *MaterialRepo) scanList(rows pgx.Rows) ([]*entity.Material, error) {
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(
			&m.ID, &m.Codigo, &m.Nome, &m.Descricao, &m.Categoria, &m.Localizacao, &m.FotoURL,
			&m.UnidadeMedida, &m.QuantidadeMinima, &m.QuantidadeAtual, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete remove o material. As movimentações não são excluídas: o FK delas é
// ON DELETE SET NULL, preservando a trilha de auditoria.
func (r *MaterialRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM materiais WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
